package textnorm

// CommonWords is a base Thai vocabulary for DictionaryTokenizer covering the
// consumer-protection domain. Callers add their own stop-words and trigger phrases.
var CommonWords = []string{
	"สภาองค์กรของผู้บริโภค", "สภาผู้บริโภค", "ผู้บริโภค", "สภา", "องค์กร", "ของ",
	"ร้องเรียน", "เรื่องร้องเรียน", "แจ้ง", "ปัญหา", "โดนโกง", "หลอกลวง", "โกง",
	"สินค้า", "บริการ", "ไม่ตรงปก", "ชำรุด", "เสียหาย", "คืนเงิน", "เงินคืน",
	"ซื้อ", "ขาย", "ออนไลน์", "ร้านค้า", "โฆษณา", "เกินจริง",
	"ประกัน", "ประกันภัย", "ประกันชีวิต", "รถยนต์", "รถ", "บ้าน", "คอนโด", "ที่ดิน",
	"อาหาร", "ยา", "เครื่องสำอาง", "สุขภาพ", "โรงพยาบาล",
	"ธนาคาร", "บัตรเครดิต", "เงินกู้", "หนี้", "ดอกเบี้ย", "สินเชื่อ",
	"โทรศัพท์", "มือถือ", "อินเทอร์เน็ต", "ค่าบริการ", "สัญญา", "ขนส่ง", "พัสดุ",
	"โทร", "อีเมล", "ที่อยู่", "เบอร์", "สำนักงาน", "ติดต่อ",
	"วิธี", "ขั้นตอน", "สิทธิ", "กฎหมาย", "คุ้มครอง",
	"บทความ", "วิดีโอ", "โบรชัวร์", "แนะนำ", "อยาก", "ขอ", "ดู", "หา", "อ่าน",
}
