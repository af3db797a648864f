package rag

// thaiFillerWords are function words and particles that carry no topic signal.
var thaiFillerWords = []string{
	"ที่", "ของ", "กับ", "โดย", "เพื่อ", "ซึ่ง", "เป็น", "ให้", "แล้ว", "จะ",
	"ก็", "ยัง", "และ", "หรือ", "แต่", "เพราะ", "จึง", "ดังนั้น", "แม้", "หาก",
	"เมื่อ", "จน", "ตาม", "ขณะ", "เนื่องจาก", "ทำ", "มี", "อยู่", "ไป", "มา",
	"ใช้", "ช่วย", "บอก", "รู้", "ควร", "สามารถ", "ต้อง", "ได้", "ไม่", "ฉัน",
	"คุณ", "เรา", "เขา", "เธอ", "มัน", "หน่อย", "นะ", "ค่ะ", "ครับ", "จ้า",
	"จ๊ะ", "หนะ", "ล่ะ", "เอง", "สิ่ง", "เรื่อง", "อย่าง", "รายการ", "ข้อมูล",
	"คำ", "แบบ", "ชนิด", "อะไร", "อย่างไร", "ทำไม", "ไหน", "ใคร", "เมื่อไหร่", "ที่ไหน",
}

var englishStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "from", "has", "have", "in", "is", "it", "of", "on",
	"or", "the", "to", "was", "were", "with",
}

// StopWords returns the default stop-word list.
func StopWords() []string {
	out := make([]string, 0, len(thaiFillerWords)+len(englishStopWords))
	out = append(out, thaiFillerWords...)
	return append(out, englishStopWords...)
}
