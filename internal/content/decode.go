package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"terminal-quiz/internal/domain"
)

// Schemas check shape and types only. Missing fields and empty values are
// left to the domain constructors so they surface as validation errors.
const registrySchema = `{
  "type": "object",
  "properties": {
    "topics": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "display_name": {"type": "string"},
          "file_name": {"type": "string"}
        }
      }
    }
  }
}`

const questionSetSchema = `{
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "properties": {
      "question": {"type": "string"},
      "A": {"type": "string"},
      "B": {"type": "string"},
      "C": {"type": "string"},
      "D": {"type": "string"},
      "answer": {"type": "string"}
    }
  }
}`

var (
	registryValidator    = mustSchema(registrySchema)
	questionSetValidator = mustSchema(questionSetSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("content: invalid schema: %v", err))
	}
	return s
}

type rawRegistry struct {
	Topics []rawTopic `json:"topics" yaml:"topics"`
}

type rawTopic struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	FileName    string `json:"file_name" yaml:"file_name"`
}

type rawQuestion struct {
	Question string `json:"question" yaml:"question"`
	A        string `json:"A" yaml:"A"`
	B        string `json:"B" yaml:"B"`
	C        string `json:"C" yaml:"C"`
	D        string `json:"D" yaml:"D"`
	Answer   string `json:"answer" yaml:"answer"`
}

func (r rawQuestion) options() map[domain.Choice]string {
	return map[domain.Choice]string{
		domain.ChoiceA: r.A,
		domain.ChoiceB: r.B,
		domain.ChoiceC: r.C,
		domain.ChoiceD: r.D,
	}
}

// DecodeRegistry parses and validates a topic registry document.
func DecodeRegistry(loc Location, data []byte) (domain.TopicRegistry, error) {
	var raw rawRegistry
	switch loc.Format {
	case FormatJSON:
		if err := checkSchema(registryValidator, data); err != nil {
			return domain.TopicRegistry{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.TopicRegistry{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.TopicRegistry{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
	default:
		return domain.TopicRegistry{}, &domain.FormatError{
			Source: loc.Key,
			Err:    fmt.Errorf("unsupported registry format %q", loc.Format),
		}
	}

	topics := make([]domain.Topic, 0, len(raw.Topics))
	for i, rt := range raw.Topics {
		topic, err := domain.NewTopic(rt.DisplayName, rt.FileName)
		if err != nil {
			return domain.TopicRegistry{}, domain.Locate(err, loc.Key, fmt.Sprintf("topic %d", i+1))
		}
		topics = append(topics, topic)
	}
	reg, err := domain.NewTopicRegistry(topics)
	if err != nil {
		return domain.TopicRegistry{}, domain.Locate(err, loc.Key, "")
	}
	return reg, nil
}

// DecodeQuestionSet parses and validates the question set for topicID.
func DecodeQuestionSet(loc Location, topicID string, data []byte) (domain.QuestionSet, error) {
	var raw []rawQuestion
	switch loc.Format {
	case FormatJSON:
		if err := checkSchema(questionSetValidator, data); err != nil {
			return domain.QuestionSet{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.QuestionSet{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.QuestionSet{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
	case FormatXLSX:
		rows, err := readSheet(data)
		if err != nil {
			return domain.QuestionSet{}, &domain.FormatError{Source: loc.Key, Err: err}
		}
		raw = rows
	default:
		return domain.QuestionSet{}, &domain.FormatError{
			Source: loc.Key,
			Err:    fmt.Errorf("unsupported question set format %q", loc.Format),
		}
	}

	questions := make([]domain.Question, 0, len(raw))
	for i, rq := range raw {
		q, err := domain.NewQuestion(rq.Question, rq.options(), rq.Answer)
		if err != nil {
			return domain.QuestionSet{}, domain.Locate(err, loc.Key, fmt.Sprintf("question %d", i+1))
		}
		questions = append(questions, q)
	}
	set, err := domain.NewQuestionSet(topicID, questions)
	if err != nil {
		return domain.QuestionSet{}, domain.Locate(err, loc.Key, "")
	}
	return set, nil
}

// EncodeQuestionSet renders a validated set back into the JSON record layout.
func EncodeQuestionSet(set domain.QuestionSet) ([]byte, error) {
	raw := make([]rawQuestion, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		q, err := set.Question(i)
		if err != nil {
			return nil, err
		}
		raw = append(raw, rawQuestion{
			Question: q.Prompt,
			A:        q.Option(domain.ChoiceA),
			B:        q.Option(domain.ChoiceB),
			C:        q.Option(domain.ChoiceC),
			D:        q.Option(domain.ChoiceD),
			Answer:   q.Answer.String(),
		})
	}
	return json.Marshal(raw)
}

// EncodeRegistry renders topics in the JSON registry layout.
func EncodeRegistry(topics []domain.Topic) ([]byte, error) {
	raw := rawRegistry{Topics: make([]rawTopic, 0, len(topics))}
	for _, t := range topics {
		raw.Topics = append(raw.Topics, rawTopic{DisplayName: t.DisplayName, FileName: t.ID})
	}
	return json.Marshal(raw)
}

func checkSchema(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// readSheet reads the first worksheet; the header row names the columns.
func readSheet(data []byte) ([]rawQuestion, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["question"]; !ok {
		return nil, fmt.Errorf("sheet %q has no %q column", sheets[0], "question")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]rawQuestion, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		out = append(out, rawQuestion{
			Question: cell(row, "question"),
			A:        cell(row, "a"),
			B:        cell(row, "b"),
			C:        cell(row, "c"),
			D:        cell(row, "d"),
			Answer:   cell(row, "answer"),
		})
	}
	return out, nil
}
