package rag

import (
	"strings"

	"consumer-assistant/internal/textnorm"
)

// CategoryTrigger maps a section label to the phrases that signal it.
type CategoryTrigger struct {
	Category string
	Phrases  []string
}

// DefaultTriggers is the curated trigger table for the "about" corpus. Order is
// significant: the first category with a matching phrase wins.
var DefaultTriggers = []CategoryTrigger{
	{Category: "overview", Phrases: []string{"คืออะไร", "เกี่ยวกับ", "หน้าที่", "ทำอะไร", "องค์กรอะไร", "overview", "ทำหน้าที่"}},
	{Category: "mission", Phrases: []string{"พันธกิจ", "เป้าหมาย", "ทำเพื่ออะไร", "บทบาท", "ภารกิจ", "mission"}},
	{Category: "history", Phrases: []string{"ประวัติ", "ก่อตั้ง", "เมื่อไหร่", "ปี", "เริ่มต้น", "history"}},
	{Category: "revenue", Phrases: []string{"รายได้", "การเงิน", "งบประมาณ", "เงิน", "income", "revenue"}},
	{Category: "contact", Phrases: []string{"ติดต่อ", "เบอร์", "อีเมล", "ที่อยู่", "สำนักงาน", "contact", "phone", "address"}},
}

// CategoryDetector maps a query to at most one section label.
type CategoryDetector struct {
	triggers []CategoryTrigger
}

// NewCategoryDetector creates a detector over an ordered trigger table. Labels and
// phrases are normalized; empty phrases are dropped.
func NewCategoryDetector(triggers []CategoryTrigger) *CategoryDetector {
	table := make([]CategoryTrigger, 0, len(triggers))
	for _, tr := range triggers {
		phrases := make([]string, 0, len(tr.Phrases))
		for _, p := range tr.Phrases {
			if n := textnorm.Normalize(p); n != "" {
				phrases = append(phrases, n)
			}
		}
		table = append(table, CategoryTrigger{Category: textnorm.Normalize(tr.Category), Phrases: phrases})
	}
	return &CategoryDetector{triggers: table}
}

// Detect returns the first category, in table order, with a phrase contained in the
// normalized query or in any of its tokens. It returns "" when nothing matches.
func (d *CategoryDetector) Detect(q Query) string {
	for _, tr := range d.triggers {
		for _, phrase := range tr.Phrases {
			if strings.Contains(q.Normalized, phrase) || anyContains(q.Tokens, phrase) {
				return tr.Category
			}
		}
	}
	return ""
}

// Phrases returns every trigger phrase in table order.
func (d *CategoryDetector) Phrases() []string {
	var out []string
	for _, tr := range d.triggers {
		out = append(out, tr.Phrases...)
	}
	return out
}

func anyContains(tokens []string, phrase string) bool {
	for _, tok := range tokens {
		if strings.Contains(tok, phrase) {
			return true
		}
	}
	return false
}
