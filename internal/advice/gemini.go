package advice

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const DefaultModel = "gemini-flash-latest"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models contentGenerator
	model  string
	log    *zap.Logger
}

// NewGemini connects to the Gemini API. Without an API key it returns a
// generator that always answers with FallbackText.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	g := &Gemini{model: model, log: logger.OrNop(log)}
	if g.model == "" {
		g.model = DefaultModel
	}
	if apiKey == "" {
		g.log.Warn("GEMINI_API_KEY not set, using fallback advice")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g.models = client.Models
	return g, nil
}

// Connected reports whether answers come from the model.
func (g *Gemini) Connected() bool {
	return g.models != nil
}

func (g *Gemini) Advise(ctx context.Context, shops []models.RankedShop, center models.Coordinate, query string) string {
	if g.models == nil {
		return FallbackText(shops, query)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(shops, query)), nil)
	if err != nil {
		g.log.Error("gemini request failed", zap.Error(err))
		return FallbackText(shops, query)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.log.Warn("gemini returned no text",
			zap.Float64("lat", center.Lat),
			zap.Float64("lon", center.Lon),
		)
		return FallbackText(shops, query)
	}
	return text
}

// Prompt renders the instruction sent to the model.
func Prompt(shops []models.RankedShop, query string) string {
	var b strings.Builder
	b.WriteString("Bạn là Fashion AI - trợ lý thời trang thông minh và thân thiện.\n\n")
	b.WriteString("THÔNG TIN CỬA HÀNG GẦN ĐÂY (để tham khảo khi cần):\n")
	b.WriteString(formatShops(shops))
	fmt.Fprintf(&b, "\n\nCÂU HỎI: %s\n\n", query)
	b.WriteString(`HƯỚNG DẪN TRẢ LỜI:
- Trả lời bằng tiếng Việt, thân thiện như đang trò chuyện với bạn bè
- Tập trung vào câu hỏi của người dùng - có thể là về thời trang, phong cách, xu hướng, cách phối đồ, v.v.
- Nếu câu hỏi liên quan đến mua sắm hoặc tìm cửa hàng, hãy gợi ý từ danh sách trên
- Nếu câu hỏi chung về thời trang (xu hướng, phối đồ, chất liệu...), hãy tư vấn chuyên môn
- Nếu là câu chào hỏi hoặc trò chuyện, hãy đáp lại thân thiện
- Giữ câu trả lời ngắn gọn (50-150 từ), dễ đọc
- Có thể dùng emoji phù hợp để tăng tính thân thiện

Trả lời:`)
	return b.String()
}

func formatShops(shops []models.RankedShop) string {
	if len(shops) == 0 {
		return "Không tìm thấy cửa hàng nào gần đây."
	}

	parts := make([]string, 0, len(shops))
	for i, s := range shops {
		promo := s.Notes
		if promo == "" {
			promo = "Không có"
		}
		parts = append(parts, fmt.Sprintf(
			"%d. %s\n   - Địa chỉ: %s\n   - Khoảng cách: %.2f km\n   - Danh mục: %s\n   - Mức giá: %s\n   - Khuyến mãi: %s",
			i+1, orNA(s.Name), orNA(s.Address), s.DistanceKm, orNA(s.Category), orNA(s.PriceRange), promo,
		))
	}
	return strings.Join(parts, "\n")
}
