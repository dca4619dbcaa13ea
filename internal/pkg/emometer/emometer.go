// Package emometer scores comment text on six emotions using a keyword lexicon.
package emometer

import (
	"strings"
	"unicode"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

// Emotion identifies one of the six scored emotions
type Emotion int

const (
	Joy Emotion = iota
	Anger
	Sadness
	Surprise
	Disgust
	Fear
)

var emotionNames = [...]string{"joy", "anger", "sadness", "surprise", "disgust", "fear"}

func (e Emotion) String() string {
	if e < Joy || e > Fear {
		return "unknown"
	}
	return emotionNames[e]
}

// DefaultLexicon is the word list used by New
var DefaultLexicon = map[string]Emotion{
	"love": Joy, "happy": Joy, "great": Joy, "nice": Joy, "beautiful": Joy,
	"awesome": Joy, "lovely": Joy, "wonderful": Joy, "glad": Joy, "cute": Joy,
	"angry": Anger, "hate": Anger, "furious": Anger, "annoying": Anger, "rage": Anger,
	"mad": Anger, "stupid": Anger, "awful": Anger,
	"sad": Sadness, "cry": Sadness, "miss": Sadness, "lonely": Sadness, "sorry": Sadness,
	"depressing": Sadness, "unhappy": Sadness, "tears": Sadness,
	"wow": Surprise, "omg": Surprise, "unexpected": Surprise, "amazing": Surprise,
	"surprised": Surprise, "shocked": Surprise, "incredible": Surprise,
	"gross": Disgust, "disgusting": Disgust, "ugly": Disgust, "nasty": Disgust,
	"yuck": Disgust, "eww": Disgust,
	"scary": Fear, "afraid": Fear, "fear": Fear, "creepy": Fear, "terrifying": Fear,
	"scared": Fear, "horror": Fear,
}

// Analyzer maps words to emotions
type Analyzer struct {
	lexicon map[string]Emotion
}

// New creates an analyzer with the default lexicon
func New() *Analyzer {
	return NewWithLexicon(DefaultLexicon)
}

// NewWithLexicon creates an analyzer on a custom word list. Keys are matched lowercased.
func NewWithLexicon(lexicon map[string]Emotion) *Analyzer {
	normalized := make(map[string]Emotion, len(lexicon))
	for word, emotion := range lexicon {
		normalized[strings.ToLower(word)] = emotion
	}
	return &Analyzer{lexicon: normalized}
}

// Score returns the share of each emotion in percent. The shares add up to 100
// when at least one lexicon word occurs; otherwise every score is zero.
func (a *Analyzer) Score(text string) models.EmotionScores {
	var counts [len(emotionNames)]int
	total := 0
	for _, word := range tokenize(text) {
		if emotion, ok := a.lexicon[word]; ok {
			counts[emotion]++
			total++
		}
	}
	if total == 0 {
		return models.EmotionScores{}
	}

	var shares [len(emotionNames)]int
	assigned := 0
	dominant := Joy
	for i, c := range counts {
		shares[i] = c * 100 / total
		assigned += shares[i]
		if c > counts[dominant] {
			dominant = Emotion(i)
		}
	}
	// integer division leaves at most a few points; they go to the strongest emotion
	shares[dominant] += 100 - assigned

	return models.EmotionScores{
		Joy:      shares[Joy],
		Anger:    shares[Anger],
		Sadness:  shares[Sadness],
		Surprise: shares[Surprise],
		Disgust:  shares[Disgust],
		Fear:     shares[Fear],
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
