// Package advice turns a ranked shop list and the user's question into a
// conversational answer.
package advice

import (
	"context"
	"fmt"
	"strings"

	"shop-finder/internal/models"
)

// Generator never fails: implementations degrade to Fallback.
type Generator interface {
	Advise(ctx context.Context, shops []models.RankedShop, center models.Coordinate, query string) string
}

const noShopsMessage = "Xin lỗi, hiện tại không tìm thấy cửa hàng quần áo nào gần bạn. " +
	"Bạn có thể mở rộng phạm vi tìm kiếm hoặc thử lại sau."

// Fallback is the deterministic answer used without a model.
type Fallback struct{}

func (Fallback) Advise(_ context.Context, shops []models.RankedShop, _ models.Coordinate, query string) string {
	return FallbackText(shops, query)
}

func FallbackText(shops []models.RankedShop, query string) string {
	if len(shops) == 0 {
		return noShopsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dựa trên vị trí của bạn, tôi tìm thấy %d cửa hàng gần đây:\n", len(shops))
	for i, s := range shops {
		fmt.Fprintf(&b, "\n%d. **%s** (%.2fkm)\n", i+1, orNA(s.Name), s.DistanceKm)
		fmt.Fprintf(&b, "   Danh mục: %s\n", orNA(s.Category))
		fmt.Fprintf(&b, "   Mức giá: %s\n", orNA(s.PriceRange))
		if s.Notes != "" {
			fmt.Fprintf(&b, "   🎁 %s\n", s.Notes)
		}
	}
	fmt.Fprintf(&b, "\nVề câu hỏi của bạn: \"%s\" - Tôi khuyên bạn nên ghé cửa hàng gần nhất để được tư vấn trực tiếp!", query)
	return b.String()
}

var suggestions = []struct {
	keywords   []string
	suggestion string
}{
	{[]string{"nữ"}, "Đầm công sở, áo kiểu thanh lịch"},
	{[]string{"nam"}, "Áo sơ mi cao cấp, quần tây"},
	{[]string{"streetwear", "phong cách"}, "Áo thun oversize, quần jogger"},
	{[]string{"gia đình", "trẻ em"}, "Set đồ đôi, đồ trẻ em cute"},
	{[]string{"giày", "túi", "phụ kiện"}, "Giày cao gót, túi xách thời trang"},
}

const defaultSuggestion = "Nhiều mẫu mới 2024"

// ItemSuggestion picks a product teaser from keywords in the shop category.
// The first matching rule wins.
func ItemSuggestion(category string) string {
	category = strings.ToLower(category)
	for _, rule := range suggestions {
		for _, kw := range rule.keywords {
			if strings.Contains(category, kw) {
				return rule.suggestion
			}
		}
	}
	return defaultSuggestion
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
