package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/llm"
	"consumer-assistant/internal/llm/mocks"
	"consumer-assistant/internal/rag"
	"consumer-assistant/internal/textnorm"
)

func TestIntentClassifier(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		want    string
		wantErr error
	}{
		{name: "plain label", reply: "ORG_INFO", want: LabelOrgInfo},
		{name: "lowercase with quotes", reply: "\"links\"\n", want: LabelLinks},
		{name: "label then explanation", reply: "COMPLAINT\nThe user wants to complain.", want: LabelComplaint},
		{name: "unknown label passes through", reply: "WEATHER", want: "WEATHER"},
		{name: "empty", reply: "  ", wantErr: ErrMalformedResponse},
		{name: "provider error", err: errors.New("503")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := mocks.NewMockCompleter(ctrl)
			completer.EXPECT().
				Complete(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, msgs []llm.Message, params llm.ChatParams) (string, error) {
					require.Len(t, msgs, 2)
					assert.Equal(t, llm.RoleSystem, msgs[0].Role)
					assert.Equal(t, "ติดต่อสภาผู้บริโภค", msgs[1].Content)
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline, "oracle calls are bounded")
					return tt.reply, tt.err
				})

			got, err := NewIntentClassifier(completer, time.Second).ClassifyIntent(context.Background(), "ติดต่อสภาผู้บริโภค")
			if tt.err != nil || tt.wantErr != nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordIntentClassifier(t *testing.T) {
	tok := textnorm.NewDictionaryTokenizer(textnorm.CommonWords, AboutKeywords, ComplaintKeywords)
	c := NewKeywordIntentClassifier(rag.NewAnalyzer(tok, rag.StopWords()))

	tests := []struct {
		text string
		want string
	}{
		{text: "อยากร้องเรียนร้านค้า", want: LabelComplaint},
		{text: "I want to file a complaints", want: LabelComplaint},
		{text: "ประวัติสภาผู้บริโภค", want: LabelOrgInfo},
		{text: "about TCC", want: LabelOrgInfo},
		{text: "ประกันรถยนต์", want: LabelLinks},
		{text: "", want: LabelLinks},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.ClassifyIntent(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryClassifier(t *testing.T) {
	labels := []string{"สินค้า > ไม่ตรงปก", "บริการ > เรียกเก็บเงินเกิน"}

	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs []llm.Message, params llm.ChatParams) (string, error) {
			assert.Contains(t, msgs[0].Content, "- สินค้า > ไม่ตรงปก\n- บริการ > เรียกเก็บเงินเกิน")
			return "`สินค้า > ไม่ตรงปก`\n", nil
		})
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("\n\n", nil)

	c := NewCategoryClassifier(completer, 0)

	got, err := c.Classify(context.Background(), "ได้ของไม่ตรงปก", labels)
	require.NoError(t, err)
	assert.Equal(t, "สินค้า > ไม่ตรงปก", got)

	_, err = c.Classify(context.Background(), "ได้ของไม่ตรงปก", labels)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestKeywordCategoryClassifier(t *testing.T) {
	labels := []string{"สินค้า > ไม่ตรงปก", "สินค้า > ชำรุดบกพร่อง", "บริการ > เรียกเก็บเงินเกิน"}
	var words []string
	for _, l := range labels {
		words = append(words, LabelWords(l)...)
	}
	tok := textnorm.NewDictionaryTokenizer(textnorm.CommonWords, words)
	c := NewKeywordCategoryClassifier(rag.NewAnalyzer(tok, rag.StopWords()))

	tests := []struct {
		text    string
		want    string
		wantErr error
	}{
		{text: "ได้สินค้าไม่ตรงปก", want: "สินค้า > ไม่ตรงปก"},
		{text: "สินค้าชำรุดบกพร่อง", want: "สินค้า > ชำรุดบกพร่อง"},
		{text: "โดนเรียกเก็บเงินเกิน", want: "บริการ > เรียกเก็บเงินเกิน"},
		{text: "สินค้า", want: "สินค้า > ไม่ตรงปก"},
		{text: "hello", wantErr: ErrNoCategory},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text, labels)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var formFields = []complaint.Field{
	{Name: "name", Label: "ชื่อ"},
	{Name: "phone", Label: "เบอร์โทรศัพท์"},
	{Name: "attachments", Label: "เอกสารแนบ", List: true},
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "plain object",
			out:  `{"name": "สมชาย", "phone": "0812345678"}`,
			want: map[string]string{"name": "สมชาย", "phone": "0812345678"},
		},
		{
			name: "fenced with prose",
			out:  "Here you go:\n```json\n{\"phone\": 812345678}\n```",
			want: map[string]string{"phone": "812345678"},
		},
		{
			name: "list values and unknown keys",
			out:  `{"attachments": ["a.jpg", "b.png"], "shoe": "42", "name": null, "phone": " "}`,
			want: map[string]string{"attachments": "a.jpg, b.png"},
		},
		{name: "empty object", out: "{}", want: map[string]string{}},
		{name: "no object", out: "ไม่พบข้อมูล", wantErr: true},
		{name: "broken json", out: `{"name": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFields(tt.out, formFields)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldExtractor(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs []llm.Message, params llm.ChatParams) (string, error) {
			assert.Contains(t, msgs[0].Content, "- phone: เบอร์โทรศัพท์")
			return `{"phone": "081"}`, nil
		})

	e := NewFieldExtractor(completer, time.Second)

	got, err := e.Extract(context.Background(), "เบอร์ 081", formFields)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "081"}, got)

	got, err = e.Extract(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePositions(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "comma list", out: "2, 0, 1", n: 3, want: []int{2, 0, 1}},
		{name: "bracketed with prose", out: "Most relevant: [4] then [1]", n: 5, want: []int{4, 1}},
		{name: "drops out of range and repeats", out: "1, 7, 1, 0", n: 3, want: []int{1, 0}},
		{name: "nothing usable", out: "none of them", n: 3, wantErr: true},
		{name: "only out of range", out: "9", n: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePositions(tt.out, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReranker(t *testing.T) {
	docs := []corpus.Document{
		{ID: "a", Title: "ประกันรถยนต์", Content: "เคลมประกัน"},
		{ID: "b", Title: "ซื้อของออนไลน์"},
	}

	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs []llm.Message, params llm.ChatParams) (string, error) {
			assert.Contains(t, msgs[1].Content, "[0] ประกันรถยนต์\n    เคลมประกัน\n[1] ซื้อของออนไลน์\n")
			return "1,0", nil
		})

	r := NewReranker(completer, time.Second)

	got, err := r.Rerank(context.Background(), "ซื้อของ", docs)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, got)

	got, err = r.Rerank(context.Background(), "ซื้อของ", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "ORG_INFO", firstLine("\n  **ORG_INFO**  \nextra"))
	assert.Equal(t, "", firstLine(" \n\t"))
}
