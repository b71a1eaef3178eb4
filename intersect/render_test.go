package intersect_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/bezsym/intersect"
)

func TestWrite_Text(t *testing.T) {
	d := intersect.Derive()
	var buf bytes.Buffer
	require.NoError(t, intersect.Write(&buf, d, intersect.FormDefault, intersect.FormatText))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "f = "+d.F.String(), lines[0])
	assert.Equal(t, "df = "+d.DF.String(), lines[1])
}

func TestWrite_LaTeX(t *testing.T) {
	d := intersect.Derive()
	var buf bytes.Buffer
	require.NoError(t, intersect.Write(&buf, d, intersect.FormCollected, intersect.FormatLaTeX))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "f = "))
	assert.Contains(t, out, "\ndf = ")
	assert.Contains(t, out, "x_{0}")
	assert.Contains(t, out, "t^{4}")
	assert.NotContains(t, out, "x0")
}

func TestWrite_JSON(t *testing.T) {
	d := intersect.Derive()
	var buf bytes.Buffer
	require.NoError(t, intersect.Write(&buf, d, intersect.FormExpanded, intersect.FormatJSON))

	var doc struct {
		Form    string   `json:"form"`
		Symbols []string `json:"symbols"`
		F       struct {
			Text string                 `json:"text"`
			Tree map[string]interface{} `json:"tree"`
		} `json:"f"`
		DF struct {
			Text string `json:"text"`
		} `json:"df"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	f, df := d.In(intersect.FormExpanded)
	assert.Equal(t, "expanded", doc.Form)
	assert.Equal(t, f.String(), doc.F.Text)
	assert.Equal(t, df.String(), doc.DF.Text)
	assert.Equal(t, "add", doc.F.Tree["type"])
	assert.Contains(t, doc.Symbols, "t")
	assert.NotContains(t, doc.Symbols, "x")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := intersect.Write(&buf, intersect.Derive(), intersect.FormDefault, intersect.Format(42))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "latex", "json"} {
		f, err := intersect.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	_, err := intersect.ParseFormat("mathml")
	assert.Error(t, err)
}
