package agent

import (
	"fmt"

	"github.com/lamvt/aigate/model"
	"github.com/lamvt/aigate/registry"
)

// Spec is one row of the declarative agent catalog. The catalog is the
// single source of truth for agent construction; the registry is built from
// it once at startup.
type Spec struct {
	Name         string
	DisplayName  string
	Description  string
	Capabilities []string
	System       string
	Template     string
	Confidence   float64
	Suggestions  []string
}

// Catalog returns the deployment's agent table. Names must satisfy the
// registry naming rule; capability tags feed the pipeline's routing stage.
func Catalog() []Spec {
	return []Spec{
		{
			Name:         "academic",
			DisplayName:  "Trợ lý học thuật",
			Description:  "Hỗ trợ nghiên cứu, tra cứu tài liệu học thuật và tóm tắt luận văn.",
			Capabilities: []string{"nghiên cứu", "học thuật", "luận văn", "research", "tài liệu"},
			System:       "Bạn là trợ lý học thuật. Trả lời chính xác, có dẫn chứng, bằng tiếng Việt.",
			Template:     "Nhiệm vụ: {{.Task}}\nChủ đề: {{.Query}}\nHãy trình bày có cấu trúc với các nguồn tham khảo nếu có.",
			Confidence:   0.85,
			Suggestions:  []string{"Thu hẹp phạm vi chủ đề", "Yêu cầu tóm tắt ngắn hơn"},
		},
		{
			Name:         "web_search_agent",
			DisplayName:  "Tìm kiếm thông tin",
			Description:  "Tổng hợp thông tin theo truy vấn của người dùng.",
			Capabilities: []string{"tìm kiếm", "tra cứu", "search", "thông tin", "tin tức"},
			System:       "Bạn là trợ lý tổng hợp thông tin. Trả lời súc tích theo gạch đầu dòng.",
			Template:     "Truy vấn: {{.Query}}\nTổng hợp các thông tin chính liên quan tới truy vấn.",
			Confidence:   0.8,
			Suggestions:  []string{"Thêm từ khóa cụ thể hơn"},
		},
		{
			Name:         "translation_agent",
			DisplayName:  "Dịch thuật",
			Description:  "Dịch văn bản giữa tiếng Việt và các ngôn ngữ khác.",
			Capabilities: []string{"dịch", "translate", "ngôn ngữ", "tiếng anh"},
			System:       "Bạn là biên dịch viên. Giữ nguyên nghĩa và văn phong, chỉ trả về bản dịch.",
			Template:     "Dịch đoạn sau ({{.Task}}):\n{{.Query}}",
			Confidence:   0.9,
		},
		{
			Name:         "math_agent",
			DisplayName:  "Giải toán",
			Description:  "Giải bài toán và trình bày các bước tính.",
			Capabilities: []string{"toán", "tính toán", "giải", "math", "phương trình"},
			System:       "Bạn là gia sư toán. Trình bày lời giải từng bước rồi kết luận đáp số.",
			Template:     "Bài toán: {{.Query}}\nGiải chi tiết từng bước.",
			Confidence:   0.85,
		},
		{
			Name:         "code_agent",
			DisplayName:  "Hỗ trợ lập trình",
			Description:  "Viết, giải thích và sửa lỗi mã nguồn.",
			Capabilities: []string{"code", "lập trình", "debug", "python", "golang"},
			System:       "Bạn là lập trình viên giàu kinh nghiệm. Kèm ví dụ mã khi phù hợp.",
			Template:     "Yêu cầu ({{.Task}}):\n{{.Query}}",
			Confidence:   0.8,
			Suggestions:  []string{"Cung cấp thông báo lỗi đầy đủ", "Nêu rõ ngôn ngữ lập trình"},
		},
		{
			Name:         "writing_agent",
			DisplayName:  "Soạn thảo văn bản",
			Description:  "Viết bài, soạn thảo và biên tập nội dung tiếng Việt.",
			Capabilities: []string{"viết", "soạn thảo", "biên tập", "bài viết", "nội dung"},
			System:       "Bạn là biên tập viên. Viết mạch lạc, đúng chính tả, giọng văn tự nhiên.",
			Template:     "Chủ đề: {{.Query}}\nYêu cầu: {{.Task}}\nViết nội dung hoàn chỉnh.",
			Confidence:   0.8,
		},
		{
			Name:         "general",
			DisplayName:  "Trợ lý tổng hợp",
			Description:  "Trả lời các câu hỏi chung không thuộc nhóm chuyên biệt.",
			Capabilities: []string{"chung", "hỏi đáp", "general", "trợ giúp"},
			System:       "Bạn là trợ lý thân thiện, trả lời ngắn gọn bằng tiếng Việt.",
			Template:     "{{.Query}}",
			Confidence:   0.7,
		},
	}
}

// Build constructs a ModelAgent from a catalog row.
func (s Spec) Build(llm model.Model) *ModelAgent {
	return NewModelAgent(
		NewBaseAgent(s.Name, s.DisplayName, s.Description, s.Capabilities...),
		llm,
		func(o *ModelAgentOptions) {
			if s.System != "" {
				o.System = s.System
			}
			if s.Template != "" {
				o.Template = s.Template
			}
			if s.Confidence > 0 {
				o.Confidence = s.Confidence
			}
			o.Suggestions = s.Suggestions
		},
	)
}

// BuildRegistry registers every catalog agent against llm and freezes the
// registry. A duplicate or invalid name aborts startup.
func BuildRegistry(llm model.Model, specs []Spec) (*registry.Registry, error) {
	if specs == nil {
		specs = Catalog()
	}

	reg := registry.New()
	for _, spec := range specs {
		if err := reg.Register(spec.Build(llm)); err != nil {
			return nil, fmt.Errorf("register agent %s: %w", spec.Name, err)
		}
	}
	reg.Freeze()
	return reg, nil
}
