package main

import (
	"errors"

	htmlloader "github.com/alnah/go-htmlloader"
	"github.com/alnah/go-htmlloader/internal/assets"
	"github.com/alnah/go-htmlloader/internal/config"
	"github.com/alnah/go-htmlloader/internal/hints"
	"github.com/alnah/go-htmlloader/internal/pipeline"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var nf *config.NotFoundError
	var se *htmlloader.StageError
	switch {
	case errors.As(err, &nf):
		return hints.ForConfigNotFound(nf.Tried)
	case errors.Is(err, assets.ErrPathTraversal):
		return hints.ForPathTraversal()
	case errors.Is(err, assets.ErrAssetNotFound), errors.Is(err, pipeline.ErrNoResourcePath):
		return hints.ForAssetNotFound()
	case errors.Is(err, htmlloader.ErrInvalidOption):
		return hints.ForInvalidOption()
	case errors.As(err, &se) && se.Stage == "lorem":
		return hints.ForLoremCount(pipeline.MaxLoremCount)
	case errors.Is(err, ErrWriteModule):
		return hints.ForOutputDirectory()
	case errors.Is(err, ErrWatch):
		return hints.ForWatchLimit()
	}
	return ""
}
