// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netinfo

import (
	"fmt"
	"strings"

	"grimm.is/ifpolicyd/internal/ifdoc"
)

// ExecuteRequest routes one parsed request against the engine and returns a
// result code plus an optional payload. Every outcome is a valid response;
// failures are carried in the code, never as a dropped reply.
func ExecuteRequest(e Engine, verb, path, body string) (int, string) {
	switch verb {
	case "GET":
		return executeGet(e, path)
	default:
		return CodeMethodNotAllowed, fmt.Sprintf("verb %s not supported\n", verb)
	}
}

func executeGet(e Engine, path string) (int, string) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")

	switch {
	case trimmed == "system/interface":
		names, err := e.Interfaces()
		if err != nil {
			return CodeError, err.Error() + "\n"
		}
		list := ifdoc.New("interfaces")
		for _, name := range names {
			list.NewChild("interface").SetAttr("name", name)
		}
		return CodeOK, list.XML()

	case len(parts) == 3 && parts[0] == "system" && parts[1] == "interface":
		doc, err := e.InterfaceDocument(parts[2])
		if err != nil {
			return CodeNotFound, err.Error() + "\n"
		}
		return CodeOK, doc.XML()

	default:
		return CodeNotFound, fmt.Sprintf("no resource at %s\n", path)
	}
}
