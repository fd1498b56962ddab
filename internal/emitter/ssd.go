package emitter

import (
	"encoding/base64"
	"encoding/json"

	"github.com/subconverter-go/subconverter/internal/model"
)

type ssdServer struct {
	ID        int    `json:"id"`
	Remarks   string `json:"remarks"`
	Server    string `json:"server"`
	Port      int    `json:"port"`
	Encryption string `json:"encryption"`
	Password  string `json:"password"`
	Plugin    string `json:"plugin,omitempty"`
	PluginOptions string `json:"plugin_options,omitempty"`
}

type ssdDocument struct {
	Airport      string      `json:"airport"`
	Port         int         `json:"port"`
	Encryption   string      `json:"encryption"`
	Password     string      `json:"password"`
	Servers      []ssdServer `json:"servers"`
}

// EmitSSD renders every Shadowsocks node into an SSD-dialect document,
// base64-wrapped the way ssd:// subscriptions are distributed. Nodes
// of any other protocol are dropped since SSD has no representation
// for them.
func EmitSSD(in Input, airportName string) (string, error) {
	doc := ssdDocument{Airport: airportName, Port: 0, Encryption: "", Password: ""}
	id := 1
	for _, n := range in.Nodes {
		if n.ProxyType != model.TypeShadowsocks {
			continue
		}
		s := ssdServer{
			ID:         id,
			Remarks:    nodeName(n),
			Server:     n.Hostname,
			Port:       n.Port,
			Encryption: n.EncryptMethod,
			Password:   n.Password,
		}
		if n.Plugin != "" {
			s.Plugin = n.Plugin
			s.PluginOptions = n.PluginOption
		}
		doc.Servers = append(doc.Servers, s)
		id++
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return "ssd://" + base64.StdEncoding.EncodeToString(raw), nil
}
