package uri

import (
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseSnell decodes a snell:// link. The teacher has no Snell
// decoder; this follows the same password@host:port?params#remark
// shape its trojan/vless decoders use.
func ParseSnell(raw string) (*model.Node, error) {
	content := strings.TrimPrefix(raw, "snell://")
	mainPart, remark := splitFragment(content)
	mainPart, params := splitQuery(mainPart)

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		return nil, errf("snell", "missing @")
	}
	password := mainPart[:atIdx]
	server, port := parseServerPort(mainPart[atIdx+1:], 0)
	if port == 0 {
		return nil, errf("snell", "port is zero")
	}

	version, _ := strconv.Atoi(params["version"])
	if version == 0 {
		version = 3
	}
	node := model.SnellConstruct(server, port, password, params["obfs"], params["obfs-host"], remark, version)
	node.UDP = model.True
	return &node, nil
}
