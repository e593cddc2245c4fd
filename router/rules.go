package router

// DefaultRules is the deployment rule table. It mirrors the gateway's
// original keyword cascade, audited for reachability: greeting phrases are
// full phrases rather than bare "chào" so informational rules further down
// stay reachable.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "greeting",
			Priority: 10,
			Keywords: []string{"xin chào", "chào bạn", "hello", "helo"},
			ReplyKey: "greeting",
		},
		{
			Name:     "capabilities",
			Priority: 20,
			Keywords: []string{"bạn có thể làm gì", "what can you do", "trợ giúp", "help"},
			ReplyKey: "capabilities",
		},
		{
			Name:     "model_info",
			Priority: 30,
			Keywords: []string{"mô hình nào", "model nào", "which model"},
			ReplyKey: "model_info",
		},
		{
			Name:     "thanks",
			Priority: 40,
			Keywords: []string{"cảm ơn", "thank you", "thanks"},
			ReplyKey: "thanks",
		},
		{
			Name:     "goodbye",
			Priority: 50,
			Keywords: []string{"tạm biệt", "goodbye", "bye bye"},
			ReplyKey: "goodbye",
		},
		{
			Name:     "web_search",
			Priority: 60,
			Keywords: []string{"tìm kiếm", "tra cứu", "search for"},
			Agent:    "web_search_agent",
			Task:     "web_search",
			Data:     map[string]string{"query": "{query}"},
		},
		{
			Name:     "translation",
			Priority: 70,
			Keywords: []string{"dịch sang", "dịch câu", "translate"},
			Agent:    "translation_agent",
			Task:     "translate",
			Data:     map[string]string{"text": "{query}"},
		},
		{
			Name:     "math",
			Priority: 80,
			Keywords: []string{"giải toán", "tính toán", "calculate"},
			Agent:    "math_agent",
			Task:     "solve",
			Data:     map[string]string{"problem": "{query}"},
		},
		{
			Name:     "code",
			Priority: 90,
			Keywords: []string{"viết code", "lập trình", "debug"},
			Agent:    "code_agent",
			Task:     "code_assist",
			Data:     map[string]string{"request": "{message}"},
		},
		{
			Name:     "writing",
			Priority: 100,
			Keywords: []string{"viết bài", "soạn thảo", "viết giúp"},
			Agent:    "writing_agent",
			Task:     "compose",
			Data:     map[string]string{"topic": "{query}"},
		},
		{
			Name:     "academic",
			Priority: 110,
			Keywords: []string{"nghiên cứu", "học thuật", "luận văn"},
			Agent:    "academic",
			Task:     "research",
			Data:     map[string]string{"topic": "{query}"},
		},
		{
			Name:     "advanced",
			Priority: 120,
			Keywords: []string{"phân tích chuyên sâu", "phân tích đa chiều", "advanced analysis"},
			Advanced: true,
			Task:     "process",
			Data:     map[string]string{"query": "{message}"},
		},
	}
}

// DefaultReplies is the localized reply string table referenced by rule
// ReplyKeys. Kept outside the routing engine so deployments can swap it
// without touching code.
func DefaultReplies() map[string]string {
	return map[string]string{
		"greeting": "Xin chào! Mình là trợ lý AI của cổng aigate. " +
			"Mình có thể tìm kiếm thông tin, dịch thuật, giải toán, hỗ trợ lập trình và viết bài. " +
			"Bạn cần giúp gì hôm nay?",
		"capabilities": "Mình hỗ trợ: tìm kiếm thông tin (gõ \"tìm kiếm ...\"), dịch thuật, " +
			"giải toán, hỗ trợ lập trình, soạn thảo văn bản và tra cứu học thuật. " +
			"Gõ nội dung bạn cần, mình sẽ chuyển tới agent phù hợp.",
		"model_info": "Cổng đang chạy trên mô hình ngôn ngữ cục bộ qua Ollama. " +
			"Danh sách mô hình khả dụng có tại endpoint /health.",
		"thanks":  "Không có gì! Nếu cần thêm hỗ trợ, bạn cứ nhắn nhé.",
		"goodbye": "Tạm biệt! Hẹn gặp lại bạn.",
		DefaultReplyKey: "Mình chưa hiểu yêu cầu này. Bạn có thể thử: \"tìm kiếm <chủ đề>\", " +
			"\"dịch sang tiếng Anh <câu>\", \"giải toán <bài toán>\" hoặc \"viết bài <chủ đề>\".",
	}
}

// Default builds a Router over DefaultRules and DefaultReplies.
func Default() *Router {
	return New(DefaultRules(), DefaultReplies())
}
