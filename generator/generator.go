package generator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"

	"github.com/bwmarrin/snowflake"
)

func IDbyIP(ip string) uint32 {
	var id uint32
	binary.Read(bytes.NewBuffer(net.ParseIP(ip).To4()), binary.BigEndian, &id)
	return id
}

// NewNode 以 ip 的低位作为 snowflake 节点号
func NewNode(ip string) (*snowflake.Node, error) {
	max := uint32(1)<<snowflake.NodeBits - 1
	return snowflake.NewNode(int64(IDbyIP(ip) & max))
}

// RunID 生成本次抓取的唯一编号, 用于日志和入库
func RunID() (string, error) {
	ip, err := LocalIP()
	if err != nil {
		ip = ""
	}
	node, err := NewNode(ip)
	if err != nil {
		return "", err
	}

	return node.Generate().String(), nil
}

func LocalIP() (string, error) {
	var (
		addrs []net.Addr
		err   error
	)
	// 获取所有网卡
	if addrs, err = net.InterfaceAddrs(); err != nil {
		return "", err
	}
	// 取第一个非lo的网卡IP
	for _, addr := range addrs {
		if ipNet, isIpNet := addr.(*net.IPNet); isIpNet && !ipNet.IP.IsLoopback() {
			if ipNet.IP.To4() != nil {
				return ipNet.IP.String(), nil
			}
		}
	}

	return "", errors.New("no local ip")
}
