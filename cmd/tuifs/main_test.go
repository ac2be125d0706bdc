package main

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rescp17/tuifs/pkg/discovery"
)

func TestPrintServices(t *testing.T) {
	var buf bytes.Buffer
	printServices(&buf, nil)
	assert.Equal(t, "No servers found\n", buf.String())

	buf.Reset()
	printServices(&buf, []discovery.ServiceInfo{
		{Name: "nas-1a2b3c4d", Addr: net.ParseIP("192.168.1.20"), Port: 3333},
	})
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[1]), "nas-1a2b3c4d")
	assert.Contains(t, string(lines[1]), "192.168.1.20:3333")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"download-dir", "log-file", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	discover, _, err := cmd.Find([]string{"discover"})
	assert.NoError(t, err)
	assert.Equal(t, "discover", discover.Name())
}
