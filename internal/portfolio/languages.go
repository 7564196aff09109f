package portfolio

import "sort"

// LanguageShare is one bar of the top languages chart.
type LanguageShare struct {
	Name    string
	Bytes   int64
	Percent float64
}

// TopLanguages derives the n largest languages by code size. Shares are
// relative to the total of all languages, not only the returned ones. A
// non-positive n returns every language.
func TopLanguages(langs map[string]int64, n int) []LanguageShare {
	var total int64

	shares := make([]LanguageShare, 0, len(langs))

	for name, size := range langs {
		if size <= 0 {
			continue
		}

		total += size

		shares = append(shares, LanguageShare{Name: name, Bytes: size})
	}

	if total == 0 {
		return nil
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}

		return shares[i].Name < shares[j].Name
	})

	if n > 0 && len(shares) > n {
		shares = shares[:n]
	}

	for i := range shares {
		shares[i].Percent = float64(shares[i].Bytes) * 100 / float64(total)
	}

	return shares
}
