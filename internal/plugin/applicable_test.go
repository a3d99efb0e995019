package plugin

import (
	"context"
	"testing"
)

func TestApplicable(t *testing.T) {
	descriptor := Descriptor{
		Name:       "ceph_mgr",
		Tags:       []Tag{TagRedHat, TagUbuntu},
		Files:      []string{"/var/lib/ceph/mgr/*"},
		Containers: []string{"ceph-(.*-)?mgr.*"},
	}

	tests := []struct {
		description string
		descriptor  Descriptor
		host        HostInfo
		want        bool
	}{
		{
			description: "os family mismatch",
			descriptor:  descriptor,
			host: HostInfo{
				OSFamilies:     []string{"debian"},
				PathGlobExists: func(string) bool { return true },
			},
			want: false,
		},
		{
			description: "file trigger matches",
			descriptor:  descriptor,
			host: HostInfo{
				OSFamilies:     []string{"redhat"},
				PathGlobExists: func(string) bool { return true },
			},
			want: true,
		},
		{
			description: "container name matches regex",
			descriptor:  descriptor,
			host: HostInfo{
				OSFamilies: []string{"ubuntu"},
				Containers: []string{"ceph-5a3f-mgr-host1"},
			},
			want: true,
		},
		{
			description: "container name does not match",
			descriptor:  descriptor,
			host: HostInfo{
				OSFamilies: []string{"ubuntu"},
				Containers: []string{"ceph-osd-host1"},
			},
			want: false,
		},
		{
			description: "no triggers fire",
			descriptor:  descriptor,
			host: HostInfo{
				OSFamilies:     []string{"redhat"},
				PathGlobExists: func(string) bool { return false },
			},
			want: false,
		},
		{
			description: "package trigger",
			descriptor: Descriptor{
				Name:     "samba",
				Tags:     []Tag{TagRedHat, TagDebian, TagUbuntu},
				Packages: []string{"samba-common"},
			},
			host: HostInfo{
				OSFamilies:       []string{"debian"},
				PackageInstalled: func(_ context.Context, name string) bool { return name == "samba-common" },
			},
			want: true,
		},
		{
			description: "service trigger",
			descriptor: Descriptor{
				Name:     "samba",
				Tags:     []Tag{TagRedHat},
				Services: []string{"winbind.service"},
			},
			host: HostInfo{
				OSFamilies:    []string{"redhat"},
				ServiceActive: func(name string) bool { return name == "winbind.service" },
			},
			want: true,
		},
		{
			description: "no triggers declared means always applicable",
			descriptor:  Descriptor{Name: "host"},
			host:        HostInfo{OSFamilies: []string{"redhat"}},
			want:        true,
		},
		{
			description: "nil predicates answer false",
			descriptor: Descriptor{
				Name:     "samba",
				Packages: []string{"samba-common"},
			},
			host: HostInfo{OSFamilies: []string{"redhat"}},
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			got := Applicable(context.Background(), test.descriptor, test.host)
			if got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}
