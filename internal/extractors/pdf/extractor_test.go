package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".pdf"}, e.Extensions())
	assert.Equal(t, []string{"application/pdf"}, e.MIMETypes())
}

func TestPageText(t *testing.T) {
	rows := pdf.Rows{
		{Position: 700, Content: pdf.TextHorizontal{{S: "Total net"}, {S: " sales"}}},
		{Position: 680, Content: pdf.TextHorizontal{{S: "$ 94,930"}}},
		{Position: 660},
	}

	assert.Equal(t, "Total net sales\n$ 94,930\n", pageText(rows))
	assert.Equal(t, "", pageText(nil))
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	_, err := New().Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
