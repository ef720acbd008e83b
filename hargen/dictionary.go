package hargen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// fallback word list for when /usr/share/dict/words doesn't exist (windows, containers)
var fallbackWords = []string{
	"roboto", "lato", "inter", "nunito", "raleway", "merriweather", "karla",
	"rubik", "manrope", "archivo", "lora", "cabin", "arvo", "oswald",
	"quicksand", "poppins", "mulish", "heebo", "barlow", "kanit", "outfit",
	"sora", "urbanist", "lexend", "jost", "epilogue", "figtree", "geist",
	"atkinson", "crimson", "spectral", "cormorant", "bitter", "domine",
	"literata", "newsreader", "fraunces", "playfair", "gelasio", "vollkorn",
	"alegreya", "besley", "petrona", "piazzolla", "tinos", "cousine",
	"anchor", "harbor", "meadow", "summit", "canyon", "signal", "beacon",
	"atlas", "orbit", "vector", "prism", "quartz", "cobalt", "ember",
	"garden", "journal", "ledger", "gazette", "bulletin", "almanac",
	"article", "archive", "gallery", "catalog", "profile", "pricing",
	"about", "contact", "careers", "support", "docs", "guide", "blog",
}

var familyStyles = []string{"Sans", "Serif", "Mono", "Display", "Text", "Grotesk"}

// Dictionary holds a list of words for random selection
type Dictionary struct {
	words []string
}

// LoadDictionary loads words from a dictionary file
func LoadDictionary(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		// fallback to built-in word list if file doesn't exist
		if os.IsNotExist(err) {
			return &Dictionary{words: fallbackWords}, nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())

		// url and css safe words only
		if len(word) >= 3 && len(word) <= 12 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary %s", path)
	}

	return &Dictionary{words: words}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord(rng *rand.Rand) string {
	if len(d.words) == 0 {
		return "word"
	}
	return d.words[rng.Intn(len(d.words))]
}

// FamilyName invents a font family name such as "Harbor Serif".
func (d *Dictionary) FamilyName(rng *rand.Rand) string {
	word := d.RandomWord(rng)
	return strings.ToUpper(word[:1]) + word[1:] + " " + familyStyles[rng.Intn(len(familyStyles))]
}

// Size returns the number of words in the dictionary
func (d *Dictionary) Size() int {
	return len(d.words)
}
