package chain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"
)

// maxNesting bounds document depth so hostile input cannot exhaust the stack.
const maxNesting = 512

// Parse decodes a chain document. The root must be a JSON object.
// Object order is preserved: it decides which continuations are looked at first.
func Parse(data []byte) (*domain.Node, error) {
	if !gojson.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", domain.ErrInvalidChain)
	}
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidChain, err)
	}
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: root is %s, want object", domain.ErrInvalidChain, dataType)
	}
	return parseNode(value, 0)
}

func parseNode(data []byte, depth int) (*domain.Node, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("%w: nesting deeper than %d", domain.ErrInvalidChain, maxNesting)
	}

	n := domain.NewNode()
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		word := string(key)
		switch word {
		case domain.KeyExplicit:
			if dataType != jsonparser.Array {
				return nil
			}
			keys, err := parseKeys(value)
			if err != nil {
				return err
			}
			n.Keys, n.HasKeys = keys, true
			return nil
		case domain.KeyPoemID:
			n.PoemID, n.NumericID = parseID(value, dataType)
			return nil
		}
		if strings.HasPrefix(word, domain.ReservedPrefix) {
			return nil
		}

		switch dataType {
		case jsonparser.Object:
			child, err := parseNode(value, depth+1)
			if err != nil {
				return err
			}
			n.Set(word, child)
		case jsonparser.Array:
			// Arrays carry no words; keep the key as a dead end.
			n.Set(word, domain.NewNode())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidChain, err)
	}
	return n, nil
}

func parseKeys(data []byte) ([]string, error) {
	keys := []string{}
	var parseErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || parseErr != nil {
			return
		}
		if dataType != jsonparser.String {
			return
		}
		s, err := jsonparser.ParseString(value)
		if err != nil {
			parseErr = err
			return
		}
		keys = append(keys, s)
	})
	if err != nil {
		return nil, err
	}
	return keys, parseErr
}

func parseID(value []byte, dataType jsonparser.ValueType) (string, bool) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", false
		}
		return s, false
	case jsonparser.Number:
		if f, err := strconv.ParseFloat(string(value), 64); err != nil || f == 0 {
			return "", false
		}
		return string(value), true
	}
	return "", false
}
