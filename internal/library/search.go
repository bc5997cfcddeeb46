package library

import (
	"sort"
	"strings"

	"github.com/mrlokans/novelreader/internal/entities"
)

// Search returns novels whose target fields contain keyword, with the
// number of occurrences, best match first. Matching ignores case.
func (l *Library) Search(keyword string, target entities.SearchTarget) ([]entities.SearchResult, error) {
	results := []entities.SearchResult{}
	if keyword == "" {
		return results, nil
	}

	candidates, err := l.repo.FindMatching(keyword, target)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	for _, novel := range candidates {
		count, err := l.countOccurrences(novel, needle, target)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		results = append(results, entities.SearchResult{Novel: novel, Count: count})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Count > results[j].Count
	})
	return results, nil
}

func (l *Library) countOccurrences(novel entities.CachedNovel, needle string, target entities.SearchTarget) (int, error) {
	count := func(s string) int {
		return strings.Count(strings.ToLower(s), needle)
	}

	switch target {
	case entities.SearchTargetTitle:
		return count(novel.Title), nil
	case entities.SearchTargetAuthor:
		return count(novel.Author), nil
	case entities.SearchTargetBoth:
		return count(novel.Title) + count(novel.Author), nil
	case entities.SearchTargetContent:
		content, err := l.repo.Content(novel.ID)
		if err != nil {
			return 0, err
		}
		return count(content), nil
	}
	return 0, nil
}
