package board

import "errors"

var (
	errNoRenderer  = errors.New("no text renderer configured")
	errNoVector    = errors.New("no vectorizer configured")
	errNoText      = errors.New("record has no text payload")
	errNoImage     = errors.New("record has no image source")
	errUnknownKind = errors.New("unknown object kind")
)
