package models

import (
	"strconv"
	"time"
)

// Topic names a tutoring subject area.
type Topic string

const (
	// TopicRandom is a choice entry, not a concrete subject: selecting it
	// resolves to one of the other topics before a problem is generated,
	// and the resolved topic is what gets persisted.
	TopicRandom Topic = "random"

	TopicAlgebra      Topic = "algebra"
	TopicGeometry     Topic = "geometry"
	TopicTrigonometry Topic = "trigonometry"
	TopicCalculus     Topic = "calculus"
	TopicProbability  Topic = "probability"
	TopicStatistics   Topic = "statistics"
	TopicNumberTheory Topic = "number theory"
)

// Topics is the fixed selection catalog shown to students.
var Topics = []Topic{
	TopicRandom,
	TopicAlgebra,
	TopicGeometry,
	TopicTrigonometry,
	TopicCalculus,
	TopicProbability,
	TopicStatistics,
	TopicNumberTheory,
}

// ConcreteTopics returns the catalog without the random-choice entry.
func ConcreteTopics() []Topic {
	out := make([]Topic, 0, len(Topics)-1)
	for _, t := range Topics {
		if t != TopicRandom {
			out = append(out, t)
		}
	}
	return out
}

// Problem is one tutoring exercise instance.
//
// FeynmanExplanation and StandardSolution are attached once at generation
// time and never regenerated for the instance. Timestamp is set when the
// problem is archived, not when it is generated. ChatHistory is append-only
// for the lifetime of an active session.
type Problem struct {
	ID                 string     `json:"id"`
	Topic              Topic      `json:"topic"`
	Content            string     `json:"content"`
	Source             string     `json:"source,omitempty"`
	FeynmanExplanation string     `json:"feynmanExplanation,omitempty"`
	StandardSolution   string     `json:"standardSolution,omitempty"`
	Difficulty         string     `json:"difficulty,omitempty"`
	Timestamp          *time.Time `json:"timestamp,omitempty"`
	ChatHistory        []Message  `json:"chatHistory,omitempty"`
}

// NewProblemID derives a problem id from the given moment.
func NewProblemID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10)
}
