package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryDetector_Detect(t *testing.T) {
	a := newTestAnalyzer(nil)
	d := NewCategoryDetector(DefaultTriggers)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "contact phrase", query: "ติดต่อ", want: "contact"},
		{name: "history phrase inside longer text", query: "ประวัติการก่อตั้ง", want: "history"},
		{name: "first category in table order wins", query: "เป้าหมายและประวัติ", want: "mission"},
		{name: "overview beats contact", query: "องค์กรนี้ทำอะไร มีเบอร์ไหม", want: "overview"},
		{name: "english trigger is case-insensitive", query: "Revenue report", want: "revenue"},
		{name: "no trigger", query: "สวัสดี", want: ""},
		{name: "empty query", query: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(a.Analyze(tt.query)))
		})
	}
}

func TestCategoryDetector_OrderIsPreserved(t *testing.T) {
	a := newTestAnalyzer(nil)
	q := a.Analyze("contact history")

	forward := NewCategoryDetector([]CategoryTrigger{
		{Category: "history", Phrases: []string{"history"}},
		{Category: "contact", Phrases: []string{"contact"}},
	})
	reversed := NewCategoryDetector([]CategoryTrigger{
		{Category: "contact", Phrases: []string{"contact"}},
		{Category: "history", Phrases: []string{"history"}},
	})

	assert.Equal(t, "history", forward.Detect(q))
	assert.Equal(t, "contact", reversed.Detect(q))
}

func TestCategoryDetector_Phrases(t *testing.T) {
	d := NewCategoryDetector([]CategoryTrigger{{Category: "X", Phrases: []string{"A", ""}}})
	assert.Equal(t, []string{"a"}, d.Phrases())
}
