package xmpp

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/jobreturn/returner"
)

const messageTemplate = "id: %s\r\n" +
	"function: %s\r\n" +
	"function args: %v\r\n" +
	"jid: %s\r\n" +
	"return: %s\r\n"

// FormatMessage renders res as the five-line chat message body.
func FormatMessage(res returner.Result) string {
	args := res.FunArgs
	if args == nil {
		args = []any{}
	}
	return fmt.Sprintf(messageTemplate, res.ID, res.Fun, args, res.JID, prettyReturn(res.Return))
}

// prettyReturn renders v as YAML; mappings come out sorted by key. Lines
// are joined with "\r\n" like the rest of the message.
func prettyReturn(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.ReplaceAll(strings.TrimRight(string(out), "\n"), "\n", "\r\n")
}
