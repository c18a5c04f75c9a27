package portrait

import "errors"

// ErrNilDocument is returned when Extract is called without a document.
var ErrNilDocument = errors.New("portrait: nil document")

// ExtractorClient extracts microportraits from parsed documents. It holds
// no per-document state, so one client can serve concurrent extractions.
//
// An ExtractorClient should be created using NewExtractorClient.
type ExtractorClient struct {
	surface           bool
	language          string
	coref             bool
	parallelDocuments int
}

// NewExtractorClientParams defines the configuration parameters for
// creating a new ExtractorClient.
//
// Surface represents terms by their lowercased surface form instead of
// their lemma. Language is the BCP 47 tag used for lowercasing when a
// document does not declare its own; it defaults to Dutch. NoCoref disables the cross-sentence merge.
// ParallelDocuments controls how many documents ExtractFiles processes at
// once.
type NewExtractorClientParams struct {
	Surface           bool
	Language          string
	NoCoref           bool
	ParallelDocuments int
}

// NewExtractorClient creates and returns a new ExtractorClient configured
// with the provided parameters.
//
// Example:
//
//	client, err := portrait.NewExtractorClient(portrait.NewExtractorClientParams{
//		ParallelDocuments: 4,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := client.Extract(doc)
func NewExtractorClient(params NewExtractorClientParams) (*ExtractorClient, error) {
	if params.ParallelDocuments < 0 {
		return nil, errors.New("portrait: ParallelDocuments must not be negative")
	}
	parallel := params.ParallelDocuments
	if parallel == 0 {
		parallel = 1
	}
	return &ExtractorClient{
		surface:           params.Surface,
		language:          params.Language,
		coref:             !params.NoCoref,
		parallelDocuments: parallel,
	}, nil
}
