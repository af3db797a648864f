package complaint

import (
	"fmt"
	"strings"
)

const (
	msgCanceled     = "ยกเลิกเรื่องร้องเรียนเรียบร้อยแล้วค่ะ หากต้องการเริ่มใหม่ พิมพ์ \"ร้องเรียน\" ได้เลยค่ะ"
	msgSummaryTitle = "**สรุปเรื่องร้องเรียน**"
	msgEditHint     = "หากต้องการแก้ไข พิมพ์ \"แก้ไข <ชื่อช่อง>\" เช่น \"แก้ไข phone\" หากต้องการยกเลิกหรือเริ่มเรื่องร้องเรียนใหม่ พิมพ์ \"ยกเลิก\""
	msgDocsTitle    = "เอกสารที่ควรเตรียม:"
	labelCategory   = "ประเภท"
	labelNone       = "ไม่มี"
)

func categoryRetryMessage(pairs []string) string {
	var b strings.Builder
	b.WriteString("ขออภัยค่ะ ยังระบุประเภทเรื่องร้องเรียนไม่ได้ กรุณาเล่าปัญหาเพิ่มเติม หรือเลือกจากรายการต่อไปนี้:\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "\n- %s", p)
	}
	return b.String()
}

func invalidFieldMessage(name string, fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return fmt.Sprintf("ไม่พบช่องข้อมูล \"%s\" กรุณาเลือกจาก: %s", name, strings.Join(names, ", "))
}

func guidanceMessage(p Pair, sub Subtype) string {
	var b strings.Builder
	fmt.Fprintf(&b, "เรื่องของคุณอยู่ในประเภท **%s**", p.String())
	if len(sub.RequiredDocuments) > 0 {
		b.WriteString("\n\n")
		b.WriteString(msgDocsTitle)
		for _, d := range sub.RequiredDocuments {
			fmt.Fprintf(&b, "\n- %s", d)
		}
	}
	if sub.Guidance != "" {
		b.WriteString("\n\n")
		b.WriteString(sub.Guidance)
	}
	return b.String()
}
