package vectorizer

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("vectorizer: not fitted")
	// ErrEmptyVocabulary is returned when the training text holds no tokens.
	ErrEmptyVocabulary = errors.New("vectorizer: empty vocabulary")
)

// TFIDF turns free text into L2-normalized TF-IDF rows over a vocabulary of
// at most MaxFeatures terms learned by Fit. IDF is smoothed:
// ln((1+n)/(1+df)) + 1.
type TFIDF struct {
	MaxFeatures  int
	StripAccents bool

	Terms []string  // vocabulary, alphabetical; column j is Terms[j]
	IDF   []float64 // aligned with Terms

	mu    sync.Mutex
	index map[string]int
}

// New returns an unfitted vectorizer.
func New(maxFeatures int, stripAccents bool) *TFIDF {
	return &TFIDF{MaxFeatures: maxFeatures, StripAccents: stripAccents}
}

// Fitted reports whether Fit has been called.
func (v *TFIDF) Fitted() bool {
	return v.Terms != nil
}

// Width returns the number of output columns.
func (v *TFIDF) Width() int {
	return len(v.Terms)
}

// FeatureNames returns the vocabulary in column order.
func (v *TFIDF) FeatureNames() []string {
	return append([]string(nil), v.Terms...)
}

// Fit learns the vocabulary and IDF weights from docs.
func (v *TFIDF) Fit(docs []string) error {
	tok := tokenizer{stripAccents: v.StripAccents}
	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tok.tokenize(d)
	}

	terms, dfs := buildVocab(tokenized, v.MaxFeatures)
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, df := range dfs {
		idf[i] = math.Log((1+n)/(1+float64(df))) + 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.Terms = terms
	v.IDF = idf
	v.index = indexTerms(terms)
	return nil
}

// Transform returns one TF-IDF row per document. Documents without any
// vocabulary term map to a zero row.
func (v *TFIDF) Transform(docs []string) (*mat.Dense, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	if len(docs) == 0 {
		return nil, errors.New("vectorizer: no documents")
	}
	index := v.lookup()

	tok := tokenizer{stripAccents: v.StripAccents}
	out := mat.NewDense(len(docs), len(v.Terms), nil)
	for i, d := range docs {
		row := out.RawRowView(i)
		for _, t := range tok.tokenize(d) {
			if j, ok := index[t]; ok {
				row[j]++
			}
		}
		floats.Mul(row, v.IDF)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return out, nil
}

// FitTransform fits on docs and returns their TF-IDF rows.
func (v *TFIDF) FitTransform(docs []string) (*mat.Dense, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// lookup returns the term index, rebuilding it after decoding.
func (v *TFIDF) lookup() map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.index == nil {
		v.index = indexTerms(v.Terms)
	}
	return v.index
}
