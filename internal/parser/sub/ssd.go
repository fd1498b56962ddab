package sub

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

type ssdServer struct {
	ID         int    `json:"id"`
	Remarks    string `json:"remarks"`
	Server     string `json:"server"`
	Port       int    `json:"port"`
	Encryption string `json:"encryption"`
	Password   string `json:"password"`
	Plugin     string `json:"plugin"`
	PluginOpts string `json:"plugin_options"`
}

type ssdDoc struct {
	Airport        string      `json:"airport"`
	Port           int         `json:"port"`
	Encryption     string      `json:"encryption"`
	Password       string      `json:"password"`
	Servers        []ssdServer `json:"servers"`
}

// decodeSSD decodes an ssd:// subscription: a base64-JSON document
// whose per-server entries inherit the document-level port/cipher/
// password when their own field is empty.
func decodeSSD(blob string) ([]model.Node, error) {
	content := strings.TrimPrefix(blob, "ssd://")
	body, err := base64Maybe(content)
	if err != nil {
		return nil, fmt.Errorf("decode ssd body: %w", err)
	}

	var doc ssdDoc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal ssd json: %w", err)
	}

	nodes := make([]model.Node, 0, len(doc.Servers))
	for i, s := range doc.Servers {
		port := s.Port
		if port == 0 {
			port = doc.Port
		}
		cipher := orDefault(s.Encryption, doc.Encryption)
		password := orDefault(s.Password, doc.Password)
		remark := s.Remarks
		if remark == "" {
			remark = fmt.Sprintf("%s %d", doc.Airport, i+1)
		}
		node := model.SSConstruct(s.Server, port, cipher, password, remark, s.Plugin, s.PluginOpts)
		node.ID = i
		node.UDP = model.True
		nodes = append(nodes, node)
	}
	return nodes, nil
}
