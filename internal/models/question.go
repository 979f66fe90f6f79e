package models

type Question struct {
	ID            string      `bson:"_id,omitempty" json:"id"`
	TestType      TestType    `bson:"test_type" json:"testType"`
	Subject       SubjectArea `bson:"subject" json:"subject"`
	Difficulty    Difficulty  `bson:"difficulty" json:"difficulty"`
	Content       string      `bson:"content" json:"content"`
	Options       []string    `bson:"options" json:"options"`
	CorrectAnswer int         `bson:"correct_answer" json:"correctAnswer"`
	Explanation   string      `bson:"explanation" json:"explanation"`
	Topics        []string    `bson:"topics" json:"topics"`
	ImageURL      string      `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// HasTopic reports whether the question is tagged with the given topic.
func (q Question) HasTopic(topic string) bool {
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
