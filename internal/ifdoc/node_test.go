// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ifdoc

import (
	"strings"
	"testing"
)

func buildInterfaceDoc() *Node {
	iface := New("interface")
	iface.SetAttr("name", "eth0")
	status := iface.NewChild("status")
	status.Text = "up"
	addr := iface.NewChild("address")
	addr.SetAttr("family", "ipv4")
	addr.Text = "192.0.2.10/24"
	return iface
}

func TestSetAttrReplaces(t *testing.T) {
	n := New("interface")
	n.SetAttr("name", "eth0")
	n.SetAttr("name", "eth1")

	if len(n.Attrs) != 1 {
		t.Fatalf("expected 1 attr, got %d", len(n.Attrs))
	}
	if v, _ := n.Attr("name"); v != "eth1" {
		t.Errorf("expected eth1, got %s", v)
	}
}

func TestReplaceChild(t *testing.T) {
	ev := New("event")
	old := New("interface")
	old.SetAttr("name", "eth0")
	ev.AddChild(old)

	repl := New("interface")
	repl.SetAttr("name", "eth0")
	repl.NewChild("status").Text = "down"
	ev.ReplaceChild(repl)

	if len(ev.Children) != 1 {
		t.Fatalf("expected 1 child after replace, got %d", len(ev.Children))
	}
	if ev.Child("interface").Child("status") == nil {
		t.Error("replacement child not in place")
	}
}

func TestFindPath(t *testing.T) {
	ev := New("event")
	ev.AddChild(buildInterfaceDoc())

	if ev.Find("interface/status") == nil {
		t.Error("expected to find interface/status")
	}
	if ev.Find("interface/missing") != nil {
		t.Error("expected nil for missing path")
	}
	if ev.Find("") != ev {
		t.Error("empty path should return the node itself")
	}
}

func TestCloneIsDeepAndEqual(t *testing.T) {
	orig := buildInterfaceDoc()
	clone := orig.Clone()

	if !orig.Equal(clone) {
		t.Fatal("clone should be structurally equal")
	}

	clone.Child("status").Text = "down"
	if orig.Child("status").Text != "up" {
		t.Error("mutating the clone reached the original")
	}
	if orig.Equal(clone) {
		t.Error("diverged trees should not be equal")
	}
}

func TestXMLRendering(t *testing.T) {
	ev := New("event")
	ev.SetAttr("type", "link-up")
	ev.AddChild(buildInterfaceDoc())

	out := ev.XML()
	for _, want := range []string{
		`<event type="link-up">`,
		`<interface name="eth0">`,
		`<status>up</status>`,
		`family="ipv4"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered XML missing %q:\n%s", want, out)
		}
	}
}

func TestXMLEscaping(t *testing.T) {
	n := New("note")
	n.SetAttr("desc", `a<b"`)
	n.Text = "x & y"

	out := n.XML()
	if strings.Contains(out, `a<b`) || strings.Contains(out, "x & y") {
		t.Errorf("unescaped content in output: %s", out)
	}
}
