package poststore

import "go-blog-listing/internal/model"

// DefaultPosts 返回首次启动时使用的三篇示例文章（每次调用返回新副本）。
func DefaultPosts() []model.Post {
	return []model.Post{
		{
			ID:       1,
			Title:    "Exploring Nature's Beauty",
			Date:     "August 22, 2024",
			Image:    "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=800&q=80",
			Content:  "Discover the tranquility of mountain lakes and the serenity of untouched landscapes. Nature offers a peaceful escape from the hustle of daily life.",
			Tags:     []string{"Nature", "Travel", "Photography"},
			Author:   "You",
			Category: "Travel",
			ReadTime: "5 min read",
		},
		{
			ID:       2,
			Title:    "City Lights and Urban Nights",
			Date:     "August 21, 2024",
			Image:    "https://images.unsplash.com/photo-1465101046530-73398c7f28ca?auto=format&fit=crop&w=800&q=80",
			Content:  "The city comes alive at night with vibrant lights and endless energy. Explore the best spots for night photography and urban adventures.",
			Tags:     []string{"City", "Photography", "Travel"},
			Author:   "You",
			Category: "Travel",
			ReadTime: "4 min read",
		},
		{
			ID:       3,
			Title:    "Technology and Innovation",
			Date:     "August 20, 2024",
			Image:    "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?auto=format&fit=crop&w=800&q=80",
			Content:  "How technology is shaping our future and the innovations we should watch out for in the coming years.",
			Tags:     []string{"Technology", "Innovation", "Future"},
			Author:   "You",
			Category: "Technology",
			ReadTime: "6 min read",
		},
	}
}
