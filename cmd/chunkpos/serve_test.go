package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/praetorian-inc/chunkpos/pkg/serve"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServe(t *testing.T) {
	serveConfigPath = ""

	input := `{"type":"index","payload":{"content":"ab\ncd","source":"inline"}}` + "\n" +
		`{"type":"locate","payload":{"content":"ab\ncd","offset":5}}` + "\n" +
		`{"type":"close","payload":{}}` + "\n"

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)

	require.NoError(t, runServe(cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	types := []string{"ready", "index", "locate"}
	for i, line := range lines {
		var resp serve.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		assert.True(t, resp.Success, resp.Error)
		assert.Equal(t, types[i], resp.Type)
	}

	var locate serve.LocateData
	var resp serve.Response
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, &locate))
	assert.Equal(t, 1, locate.Position.Row)
	assert.Equal(t, 2, locate.Position.Column)
}

func TestRunServe_BadConfig(t *testing.T) {
	serveConfigPath = "/nonexistent/chunkpos.yaml"
	defer func() { serveConfigPath = "" }()

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})

	err := runServe(cmd, nil)
	require.Error(t, err)
}
