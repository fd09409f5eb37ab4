// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package netinfo

import (
	"strconv"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/ifdoc"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
)

// LinuxEngine implements Engine against the running kernel using netlink
// for link and address state and ethtool for driver-level detail.
type LinuxEngine struct {
	logger *logging.Logger

	// enableActions arms IssueControlAction. Off by default: the action
	// dispatch is a hook point and the grammar is not defined here.
	enableActions bool
}

// NewLinuxEngine creates a kernel-backed engine.
func NewLinuxEngine(logger *logging.Logger, enableActions bool) *LinuxEngine {
	if logger == nil {
		logger = logging.WithComponent("netinfo")
	}
	return &LinuxEngine{logger: logger, enableActions: enableActions}
}

// Interfaces lists all kernel interface names.
func (e *LinuxEngine) Interfaces() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnavailable, "link list")
	}
	names := make([]string, 0, len(links))
	for _, link := range links {
		names = append(names, link.Attrs().Name)
	}
	return names, nil
}

// InterfaceDocument snapshots one interface into a document tree.
func (e *LinuxEngine) InterfaceDocument(name string) (*ifdoc.Node, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindNotFound, "interface %s", name)
	}
	attrs := link.Attrs()

	doc := ifdoc.New("interface")
	doc.SetAttr("name", attrs.Name)
	doc.SetAttr("index", strconv.Itoa(attrs.Index))
	doc.SetAttr("type", link.Type())

	status := doc.NewChild("status")
	if attrs.OperState == netlink.OperUp {
		status.Text = "up"
	} else {
		status.Text = "down"
	}

	ln := doc.NewChild("link")
	ln.SetAttr("mtu", strconv.Itoa(attrs.MTU))
	if attrs.HardwareAddr != nil {
		ln.SetAttr("mac", attrs.HardwareAddr.String())
	}
	ln.SetAttr("state", attrs.OperState.String())

	addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "address list for %s", name)
	}
	if len(addrs) > 0 {
		addrsNode := doc.NewChild("addresses")
		for _, addr := range addrs {
			an := addrsNode.NewChild("address")
			if addr.IP.To4() != nil {
				an.SetAttr("family", "ipv4")
			} else {
				an.SetAttr("family", "ipv6")
			}
			an.Text = addr.IPNet.String()
		}
	}

	// Driver detail is best effort: virtual interfaces typically reject
	// the ethtool ioctls and the snapshot is still useful without them.
	e.addEthtoolDetail(doc, name)

	return doc, nil
}

func (e *LinuxEngine) addEthtoolDetail(doc *ifdoc.Node, name string) {
	et, err := ethtool.NewEthtool()
	if err != nil {
		e.logger.Debug("ethtool unavailable", "error", err)
		return
	}
	defer et.Close()

	node := ifdoc.New("ethtool")
	populated := false

	if drvInfo, err := et.DriverInfo(name); err == nil {
		node.SetAttr("driver", drvInfo.Driver)
		if drvInfo.Version != "" {
			node.SetAttr("version", drvInfo.Version)
		}
		if drvInfo.BusInfo != "" {
			node.SetAttr("bus", drvInfo.BusInfo)
		}
		populated = true
	}

	var cmd ethtool.EthtoolCmd
	if speed, err := cmd.CmdGet(name); err == nil && speed > 0 && speed != ^uint32(0) {
		ls := node.NewChild("link-settings")
		ls.SetAttr("speed", strconv.FormatUint(uint64(speed), 10))
		switch cmd.Duplex {
		case 0:
			ls.SetAttr("duplex", "half")
		case 1:
			ls.SetAttr("duplex", "full")
		}
		if cmd.Autoneg != 0 {
			ls.SetAttr("autoneg", "on")
		} else {
			ls.SetAttr("autoneg", "off")
		}
		populated = true
	}

	if populated {
		doc.AddChild(node)
	}
}

// IssueControlAction is the post-apply hook point. The built-in engine has
// no action grammar; it logs the dispatch and, unless actions are enabled,
// stays a no-op.
func (e *LinuxEngine) IssueControlAction(action, resourcePath string, doc *ifdoc.Node) error {
	if !e.enableActions {
		e.logger.Debug("control action suppressed (actions disabled)",
			"action", action, "resource", resourcePath)
		return nil
	}
	metrics.ActionsIssued.Inc()
	e.logger.Info("control action issued", "action", action, "resource", resourcePath)
	return nil
}

// NewEngine returns the platform engine for this host.
func NewEngine(logger *logging.Logger, enableActions bool) Engine {
	return NewLinuxEngine(logger, enableActions)
}

var _ Engine = (*LinuxEngine)(nil)
