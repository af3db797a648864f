package service

import (
	"fmt"
	"strings"

	"consumer-assistant/internal/rag"
)

// User-visible fallback replies.
const (
	MsgNoInfo      = "ไม่พบข้อมูลที่เกี่ยวข้อง กรุณาลองใหม่ค่ะ"
	MsgUnavailable = "ขออภัยค่ะ ระบบขัดข้องชั่วคราว กรุณาลองใหม่อีกครั้งค่ะ"
)

var linkTitleEscaper = strings.NewReplacer("[", "\\[", "]", "\\]")

// FormatOrgAnswer renders an organisation answer as markdown.
func FormatOrgAnswer(a rag.OrgAnswer) string {
	if !a.Found {
		return MsgNoInfo
	}
	var b strings.Builder
	if a.Title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", a.Title)
	}
	b.WriteString(a.Content)
	if a.Truncated {
		b.WriteString("...")
	}
	return b.String()
}

// FormatLinks renders recommended links as a markdown list labelled by source.
func FormatLinks(set rag.LinkSet) string {
	if len(set.Links) == 0 {
		return MsgNoInfo
	}
	var b strings.Builder
	for i, l := range set.Links {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := l.Title
		if title == "" {
			title = "ไม่ระบุหัวข้อ"
		}
		title = linkTitleEscaper.Replace(title)
		if l.URL != "" {
			fmt.Fprintf(&b, "- [%s](%s) (%s)", title, l.URL, l.Source.Label())
		} else {
			fmt.Fprintf(&b, "- %s (%s)", title, l.Source.Label())
		}
	}
	return b.String()
}
