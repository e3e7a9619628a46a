package catalog

import (
	"fmt"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

var (
	wide     = domain.Dimensions{Width: 1920, Height: 1080}
	card     = domain.Dimensions{Width: 800, Height: 600}
	portrait = domain.Dimensions{Width: 400, Height: 500}
)

type service struct {
	id    string
	query string
}

var siteServices = []service{
	{"content_creation", "video production studio"},
	{"creative_design", "graphic design workspace"},
	{"digital_innovation", "digital technology innovation"},
	{"strategic_consulting", "business strategy meeting"},
	{"technology_solutions", "software development team"},
}

// Default returns the built-in catalog of the site's media slots.
// Every call returns a fresh slice.
func Default() []domain.AssetSlot {
	slots := []domain.AssetSlot{
		video("hero.background", "cinematic film production", "hero/hero-video.mp4", wide),
		image("hero.poster", "cinematic film set", "hero/hero-poster.jpg", wide),
	}

	for _, s := range siteServices {
		base := "assets/services/" + s.id + "/"
		slots = append(slots,
			video("services."+s.id+".video", s.query, base+"service-hero.mp4", wide),
			image("services."+s.id+".image", s.query, base+"service-image.jpg", card),
		)
	}

	for i := 1; i <= 3; i++ {
		slots = append(slots,
			image(fmt.Sprintf("team.photo.%d", i), "creative professional portrait",
				fmt.Sprintf("assets/team/team-member-%d.jpg", i), portrait),
			video(fmt.Sprintf("team.video.%d", i), "creative professional at work",
				fmt.Sprintf("assets/team/team-member-%d.mp4", i), wide),
		)
	}

	processQueries := []string{"brainstorming session", "storyboard sketching", "film shooting", "video editing"}
	for i, q := range processQueries {
		n := i + 1
		slots = append(slots,
			video(fmt.Sprintf("process.step_%d.video", n), q, fmt.Sprintf("assets/process/process-step-%d.mp4", n), wide),
			image(fmt.Sprintf("process.step_%d.image", n), q, fmt.Sprintf("assets/process/process-step-%d.jpg", n), card),
		)
	}

	insightQueries := []string{"marketing analytics", "creative agency", "brand storytelling"}
	for i, q := range insightQueries {
		n := i + 1
		slots = append(slots,
			video(fmt.Sprintf("insights.article_%d.video", n), q, fmt.Sprintf("assets/blog/articles/insight-%d.mp4", n), wide),
			image(fmt.Sprintf("insights.article_%d.image", n), q, fmt.Sprintf("assets/blog/articles/insight-%d.jpg", n), card),
		)
	}

	for i := 1; i <= 6; i++ {
		slots = append(slots, image(fmt.Sprintf("portfolio.gallery.%d", i), "cinematic photography",
			fmt.Sprintf("assets/gallery/gallery-%d.jpg", i), card))
	}

	for i := 1; i <= 3; i++ {
		slots = append(slots, image(fmt.Sprintf("testimonials.success_story.%d", i), "business success team",
			fmt.Sprintf("assets/success-stories/success-story-%d.jpg", i), card))
	}

	// Logos are never searched for; without a local file they get a placeholder.
	slots = append(slots,
		image("logos.primary", "", "assets/logos/orson-vision.svg", domain.Dimensions{Width: 240, Height: 80}),
		image("logos.mark", "", "assets/logos/orson-vision-mark.svg", domain.Dimensions{Width: 80, Height: 80}),
	)

	return slots
}

func image(id, query, target string, dims domain.Dimensions) domain.AssetSlot {
	return slot(id, domain.KindImage, query, target, dims)
}

func video(id, query, target string, dims domain.Dimensions) domain.AssetSlot {
	return slot(id, domain.KindVideo, query, target, dims)
}

func slot(id string, kind domain.Kind, query, target string, dims domain.Dimensions) domain.AssetSlot {
	d := dims
	return domain.AssetSlot{
		ID:          id,
		Kind:        kind,
		SearchQuery: query,
		TargetPath:  target,
		Dimensions:  &d,
	}
}
