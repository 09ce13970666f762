package brief

import (
	"sort"

	"daily-brief/internal/domain/entity"
)

// BuildSections partitions the filtered articles by source group, preserving
// the configured group order and sorting each group freshest first (stable,
// undated items last). Every configured group yields a Section, even when no
// article survived for it.
func BuildSections(groups []entity.Group, articles []entity.Article) []entity.Section {
	byGroup := make(map[string][]entity.Article, len(groups))
	for _, a := range articles {
		byGroup[a.SourceGroup] = append(byGroup[a.SourceGroup], a)
	}

	sections := make([]entity.Section, 0, len(groups))
	for _, g := range groups {
		members := byGroup[g.ID]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].PublishedAt.After(members[j].PublishedAt)
		})
		sections = append(sections, entity.Section{Group: g, Articles: members})
	}
	return sections
}

// SelectRoundup picks every scored article whose score meets the threshold,
// across all groups, sorted by score descending with publication time
// descending as tie-break, capped at maxItems. Articles whose scoring failed
// upstream (nil score) never enter the roundup; they stay in their section.
func SelectRoundup(articles []entity.Article, threshold, maxItems int) entity.Roundup {
	var selected []entity.Article
	for _, a := range articles {
		if a.Score != nil && *a.Score >= threshold {
			selected = append(selected, a)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if *selected[i].Score != *selected[j].Score {
			return *selected[i].Score > *selected[j].Score
		}
		return selected[i].PublishedAt.After(selected[j].PublishedAt)
	})

	if maxItems > 0 && len(selected) > maxItems {
		selected = selected[:maxItems]
	}

	return entity.Roundup{Threshold: threshold, Articles: selected}
}
