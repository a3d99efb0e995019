// Package samba collects Samba and Winbind diagnostic data.
package samba

import (
	"context"

	"github.com/redhatinsights/hostdiag/internal/plugin"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (*Plugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        "samba",
		Description: "Samba related information",
		Tags:        []plugin.Tag{plugin.TagRedHat, plugin.TagDebian, plugin.TagUbuntu},
		Packages:    []string{"samba-common"},
		Services:    []string{"smb.service", "winbind.service"},
	}
}

func (*Plugin) Setup(_ context.Context, c *plugin.Context) error {
	c.AddCopySpec(
		"/etc/samba",
		"/var/log/samba/*",
	)
	c.AddCmdOutput("wbinfo --domain='.' -g")
	c.AddCmdOutput("wbinfo --domain='.' -u")
	c.AddCmdOutput("testparm -s -v")
	return nil
}
