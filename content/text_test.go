package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return "<p>" + strings.TrimSpace(strings.Repeat("word ", n)) + "</p>"
}

func TestPlainText(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
		want     string
	}{
		{name: "paragraphs do not merge", fragment: "<p>Hello</p><p>World</p>", want: "Hello World"},
		{name: "entities decoded", fragment: "<p>Tom &amp; Jerry</p>", want: "Tom & Jerry"},
		{name: "script skipped", fragment: "<p>a</p><script>var x = 1;</script><p>b</p>", want: "a b"},
		{name: "inline tags keep words", fragment: "<p>go<strong>lang</strong> rocks</p>", want: "golang rocks"},
		{name: "empty", fragment: "", want: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, PlainText(testCase.fragment))
		})
	}
}

func TestReadTime(t *testing.T) {
	testCases := []struct {
		words int
		want  int
	}{
		{words: 0, want: 1},
		{words: 1, want: 1},
		{words: 200, want: 1},
		{words: 201, want: 2},
		{words: 400, want: 2},
		{words: 450, want: 3},
		{words: 1000, want: 5},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, ReadTime(words(testCase.words), 200), "words=%d", testCase.words)
	}
}

func TestReadTimeFallsBackToDefaultSpeed(t *testing.T) {
	assert.Equal(t, 2, ReadTime(words(201), 0))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "", Excerpt("<p> </p>", 150))
	assert.Equal(t, "short post...", Excerpt("<p>short <em>post</em></p>", 150))

	long := "<p>" + strings.Repeat("a", 300) + "</p>"
	got := Excerpt(long, 150)
	assert.Equal(t, strings.Repeat("a", 150)+"...", got)

	korean := "<p>" + strings.Repeat("가", 200) + "</p>"
	assert.Equal(t, 153, len([]rune(Excerpt(korean, 150))))
}
