package sub

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// netchServer mirrors the flat JSON record Netch exports: one object
// per proxy, type-tagged, with protocol-specific fields all present
// (empty-string/zero when not applicable to that Type).
type netchServer struct {
	Remark        string `json:"Remark"`
	Type          string `json:"Type"`
	Hostname      string `json:"Hostname"`
	Port          int    `json:"Port"`
	EncryptMethod string `json:"EncryptMethod"`
	Password      string `json:"Password"`
	Protocol      string `json:"Protocol"`
	ProtocolParam string `json:"ProtocolParam"`
	OBFS          string `json:"OBFS"`
	OBFSParam     string `json:"OBFSParam"`
	UserID        string `json:"UserID"`
	AlterID       int    `json:"AlterID"`
	TransferProtocol string `json:"TransferProtocol"`
	Host          string `json:"Host"`
	Path          string `json:"Path"`
}

func looksLikeNetchJSON(blob string) bool {
	trimmed := strings.TrimSpace(blob)
	return strings.HasPrefix(trimmed, "[") && strings.Contains(blob, `"Hostname"`) && strings.Contains(blob, `"Type"`)
}

// decodeNetchJSON decodes a Netch-exported JSON array of servers.
func decodeNetchJSON(blob string) ([]model.Node, error) {
	var servers []netchServer
	if err := json.Unmarshal([]byte(blob), &servers); err != nil {
		return nil, fmt.Errorf("unmarshal netch json: %w", err)
	}

	nodes := make([]model.Node, 0, len(servers))
	for i, s := range servers {
		var node model.Node
		switch s.Type {
		case "Shadowsocks", "SS":
			node = model.SSConstruct(s.Hostname, s.Port, s.EncryptMethod, s.Password, s.Remark, "", "")
		case "ShadowsocksR", "SSR":
			node = model.SSRConstruct(s.Hostname, s.Port, s.EncryptMethod, s.Password, s.Protocol, s.ProtocolParam, s.OBFS, s.OBFSParam, s.Remark)
		case "VMess":
			node = model.VMessConstruct(s.Hostname, s.Port, s.UserID, s.AlterID, model.TransferProtocol(orDefault(s.TransferProtocol, "tcp")), s.Host, s.Path, s.Remark, false)
		case "Trojan":
			node = model.TrojanConstruct(s.Hostname, s.Port, s.Password, s.Host, s.Remark)
		default:
			continue
		}
		node.ID = i
		nodes = append(nodes, node)
	}
	return nodes, nil
}
