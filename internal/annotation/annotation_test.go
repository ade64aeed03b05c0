package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "{{foo}}【edit note: bar】", "foo"},
		{"full-width colon", "{{foo}}【edit note：bar】", "foo"},
		{"embedded", "We {{measure}}【edit note: say estimate】 the rate.", "We measure the rate."},
		{"multiple", "{{a}}【edit note: x】 and {{b}}【edit note: y】", "a and b"},
		{"multiline", "{{line one\nline two}}【edit note: tighten\nthis】", "line one\nline two"},
		{"plain", "no spans here", "no spans here"},
		{"unterminated", "{{foo}}【edit note: bar", "{{foo}}【edit note: bar"},
		{"empty note", "{{foo}}【edit note:】", "{{foo}}【edit note:】"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestFind(t *testing.T) {
	text := "We {{measure}}【edit note: say estimate】 and {{fit}}【edit note：regress】."
	assert.Equal(t, []Span{
		{Original: "measure", Note: "say estimate"},
		{Original: "fit", Note: "regress"},
	}, Find(text))
	assert.Empty(t, Find("plain"))
}

func TestFormat_RoundTrip(t *testing.T) {
	s := Format("orig", "note")
	assert.Equal(t, "{{orig}}【edit note: note】", s)
	assert.Equal(t, "orig", Strip(s))
}

func TestOnly(t *testing.T) {
	assert.True(t, Only("{{foo}}【edit note: bar】"))
	assert.True(t, Only(" {{a}}【edit note: x】\n{{b}}【edit note: y】 "))
	assert.False(t, Only("We {{foo}}【edit note: bar】."))
	assert.False(t, Only("plain"))
	assert.False(t, Only(""))
}
