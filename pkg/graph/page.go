package graph

import "github.com/codeGROOVE-dev/metastats/pkg/wire"

// EngagementFields is the field selector for PageEngagement.
const EngagementFields = "category,category_list,followers_count,fan_count,new_like_count," +
	"overall_star_rating,rating_count,talking_about_count"

// PageInfo is the default projection of a Page node.
type PageInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Check implements classify.Checker.
func (p *PageInfo) Check() error {
	if p.ID == "" {
		return missing("id")
	}
	return nil
}

// Category is one entry of a Page's category list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PageEngagement is a Page node requested with EngagementFields.
type PageEngagement struct {
	ID                string     `json:"id"`
	Category          string     `json:"category"`
	CategoryList      []Category `json:"category_list"`
	FollowersCount    wire.Int   `json:"followers_count"`
	FanCount          wire.Int   `json:"fan_count"`
	NewLikeCount      wire.Int   `json:"new_like_count"`
	OverallStarRating wire.Float `json:"overall_star_rating"`
	RatingCount       wire.Int   `json:"rating_count"`
	TalkingAboutCount wire.Int   `json:"talking_about_count"`
}

// Check implements classify.Checker.
func (p *PageEngagement) Check() error {
	if p.ID == "" {
		return missing("id")
	}
	return nil
}
