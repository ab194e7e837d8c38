package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".htm", ".html"}, e.Extensions())
	assert.Contains(t, e.MIMETypes(), "text/html")
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraphs become lines",
			input: "<html><body><p>Net sales increased.</p><p>Services grew.</p></body></html>",
			want:  "Net sales increased.\nServices grew.",
		},
		{
			name:  "head script and style dropped",
			input: "<html><head><title>10-K</title></head><style>p{}</style><script>x()</script><div>Body</div></html>",
			want:  "Body",
		},
		{
			name:  "entities decoded",
			input: "<p>R&amp;D&nbsp;expense &lt;5%&gt;</p>",
			want:  "R&D expense <5%>",
		},
		{
			name:  "table cells separated",
			input: "<table><tr><td>Revenue</td><td>$94.9</td></tr><tr><td>Margin</td><td>46%</td></tr></table>",
			want:  "Revenue $94.9\nMargin 46%",
		},
		{
			name:  "comments and inline xbrl header removed",
			input: "<!-- gen --><ix:header><ix:hidden>dei</ix:hidden></ix:header><span>Visible</span>",
			want:  "Visible",
		},
		{
			name:  "line breaks",
			input: "one<br>two<br/>three<hr />four",
			want:  "one\ntwo\nthree\nfour",
		},
		{
			name:  "empty",
			input: "<html><body>   </body></html>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aapl-10k.htm")
	require.NoError(t, os.WriteFile(path, []byte("<html><body><h1>Item 7</h1><p>Results of operations</p></body></html>"), 0o600))

	got, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Item 7\nResults of operations", got)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}
