package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tsawler/tickmatrix/config"
	"github.com/tsawler/tickmatrix/htmldoc"
)

const page = `<html><head><title>Platform</title></head><body><div id="layout">
<div class="parentMatrix"></div>
<div class="parentMatrix">
<div class="VertColHeadingInnerDiv">Col X</div><div class="VertColHeadingInnerDiv">Col Y</div>
<table><tr><td>Row 1</td><td id="p11"><img alt="Tick" title="Tick"></td><td id="yui-gen-1"></td></tr></table>
</div>
<div class="childMatrix">
<table><tr><td>Row 1</td><td id="c11"><img alt="Tick" title="Tick"></td><td id="c12"><img alt="Tick" title="Tick"></td></tr></table>
</div>
</div></body></html>`

// setup resets the package globals the commands read.
func setup(t *testing.T) (string, *cobra.Command, *bytes.Buffer) {
	t.Helper()

	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	parentScope, childScope = "", ""
	outputFormat, outputPath = formatPage, ""
	strict, force, labelsJSON = false, false, false
	headingClass, layoutColor, scope = "", "", ""
	columnOffset = -1
	normalize = false
	configPath = ""

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return path, cmd, &out
}

func TestValidateCmd_Page(t *testing.T) {
	path, cmd, out := setup(t)
	parentScope, childScope = "parentMatrix", "childMatrix"

	require.NoError(t, runValidate(cmd, []string{path}))

	d, err := htmldoc.Parse(out.String())
	require.NoError(t, err)
	assert.Equal(t, "green", htmldoc.Style(htmldoc.FindByID(d.Root(), "c11"), "background-color"))
	assert.Equal(t, "red", htmldoc.Style(htmldoc.FindByID(d.Root(), "c12"), "background-color"))
}

func TestValidateCmd_ScopesFromConfig(t *testing.T) {
	path, cmd, out := setup(t)
	cfg.Matrix.ParentScope = "parentMatrix"
	cfg.Matrix.ChildScope = "childMatrix"
	outputFormat = "markdown"

	require.NoError(t, runValidate(cmd, []string{path}))
	assert.Contains(t, out.String(), "## Matched (1)")
	assert.Contains(t, out.String(), "## Unmatched (1)")
}

func TestValidateCmd_Stdin(t *testing.T) {
	_, cmd, out := setup(t)
	parentScope, childScope = "parentMatrix", "childMatrix"
	outputFormat = "json"
	cmd.SetIn(strings.NewReader(page))

	require.NoError(t, runValidate(cmd, []string{"-"}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.NotEmpty(t, decoded["run_id"])
}

func TestValidateCmd_OutFile(t *testing.T) {
	path, cmd, out := setup(t)
	parentScope, childScope = "parentMatrix", "childMatrix"
	outputPath = filepath.Join(t.TempDir(), "annotated.html")

	require.NoError(t, runValidate(cmd, []string{path}))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "background-color: green;")
}

func TestValidateCmd_Strict(t *testing.T) {
	path, cmd, _ := setup(t)
	parentScope, childScope = "parentMatrix", "childMatrix"
	strict = true

	err := runValidate(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 child label(s)")
}

func TestValidateCmd_Errors(t *testing.T) {
	path, cmd, _ := setup(t)

	assert.Error(t, runValidate(cmd, []string{path}), "scopes are required")

	parentScope, childScope = "parentMatrix", "childMatrix"
	outputFormat = "pdf"
	assert.Error(t, runValidate(cmd, []string{path}))

	outputFormat = formatPage
	assert.Error(t, runValidate(cmd, []string{filepath.Join(t.TempDir(), "missing.html")}))
}

func TestValidateCmd_EngineFlags(t *testing.T) {
	path, cmd, out := setup(t)
	parentScope, childScope = "parentMatrix", "childMatrix"
	layoutColor = "#00a3a4"

	require.NoError(t, runValidate(cmd, []string{path}))

	d, err := htmldoc.Parse(out.String())
	require.NoError(t, err)
	assert.Equal(t, "#00a3a4", htmldoc.Style(htmldoc.FindByID(d.Root(), "layout"), "background-color"))
}

func TestAnnotateCmd(t *testing.T) {
	path, cmd, out := setup(t)
	parentScope = "parentMatrix"

	require.NoError(t, runAnnotate(cmd, []string{path}))

	d, err := htmldoc.Parse(out.String())
	require.NoError(t, err)
	assert.Equal(t, "Row: Row 1\r\nColumn: Col Y", htmldoc.GetAttr(htmldoc.FindByID(d.Root(), "c12"), "title"))
	assert.Equal(t, "white", htmldoc.Style(htmldoc.FindByID(d.Root(), "yui-gen-1"), "background-color"))
	// No comparison colors.
	assert.Empty(t, htmldoc.Style(htmldoc.FindByID(d.Root(), "c11"), "background-color"))
}

func TestLabelsCmd(t *testing.T) {
	path, cmd, out := setup(t)
	scope = "childMatrix"

	require.NoError(t, runLabels(cmd, []string{path}))
	assert.Equal(t, "Tick\nTick\n", out.String())

	out.Reset()
	labelsJSON = true
	require.NoError(t, runLabels(cmd, []string{path}))
	assert.Contains(t, out.String(), `"status": "found"`)
}

func TestConfigInitCmd(t *testing.T) {
	_, cmd, out := setup(t)
	path := filepath.Join(t.TempDir(), "tickmatrix.yaml")

	require.NoError(t, runConfigInit(cmd, []string{path}))
	assert.Contains(t, out.String(), path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Matrix, loaded.Matrix)

	assert.Error(t, runConfigInit(cmd, []string{path}), "existing file without --force")

	force = true
	assert.NoError(t, runConfigInit(cmd, []string{path}))
}

func TestLoadConfig_Validates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickmatrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matrix:\n  tick_sentinel: \"\"\n"), 0644))

	for _, c := range []*cobra.Command{validateCmd, annotateCmd, labelsCmd, liveCmd} {
		_, err := loadConfig(c, path)
		require.Error(t, err, c.Name())
		assert.Contains(t, err.Error(), "tick_sentinel")
	}

	loaded, err := loadConfig(configInitCmd, path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Matrix.TickSentinel)

	loaded, err = loadConfig(validateCmd, filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Tick", loaded.Matrix.TickSentinel)
}

func TestLiveConfig(t *testing.T) {
	setup(t)
	cfg.Live.ControlURL = "ws://from-config"

	lc := liveConfig()
	assert.Equal(t, "ws://from-config", lc.ControlURL)
	assert.True(t, lc.Headless)

	controlURL, headful = "ws://from-flag", true
	defer func() { controlURL, headful = "", false }()

	lc = liveConfig()
	assert.Equal(t, "ws://from-flag", lc.ControlURL)
	assert.False(t, lc.Headless)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	for _, name := range []string{"validate", "annotate", "labels", "serve", "live", "config"} {
		found, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}
}
