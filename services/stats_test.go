package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-cms/models"
)

func TestComputeWordStats(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.WordStats
	}{
		{name: "empty", content: "", want: models.WordStats{}},
		{name: "markup only", content: "<p></p>", want: models.WordStats{WordCount: 0, ReadingTime: 1}},
		{name: "plain text", content: "one two three", want: models.WordStats{WordCount: 3, ReadingTime: 1}},
		{name: "adjacent blocks", content: "<p>one</p><p>two</p>", want: models.WordStats{WordCount: 2, ReadingTime: 1}},
		{name: "inline link", content: `<p>See <a href="x">the docs</a>.</p>`, want: models.WordStats{WordCount: 3, ReadingTime: 1}},
		{name: "emphasis inside word", content: "<p>un<em>believ</em>able</p>", want: models.WordStats{WordCount: 1, ReadingTime: 1}},
		{name: "line break", content: "<p>one<br>two</p><ul><li>three</li><li>four</li></ul>", want: models.WordStats{WordCount: 4, ReadingTime: 1}},
		{name: "script ignored", content: "<p>hi there</p><script>var a = 1;</script><style>p{}</style>", want: models.WordStats{WordCount: 2, ReadingTime: 1}},
		{name: "exactly 200", content: strings.Repeat("w ", 200), want: models.WordStats{WordCount: 200, ReadingTime: 1}},
		{name: "201 rounds up", content: strings.Repeat("w ", 201), want: models.WordStats{WordCount: 201, ReadingTime: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeWordStats(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
