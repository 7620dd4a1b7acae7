package service

import "homepedia-map/internal/domain/model"

// ReputationCodeSet decides which codes the batch reputation query covers.
// Child shapes win outright when loaded; otherwise the current-level
// collection is used only when it holds more than one shape (a lone parent
// shape yields no statistics request). The single-shape asymmetry is kept
// deliberately: downstream consumers rely on it.
func ReputationCodeSet(shapes, childShapes []model.Shape) []string {
	if codes := model.ShapeCodes(childShapes); len(codes) > 0 {
		return codes
	}
	if len(shapes) > 1 {
		return model.ShapeCodes(shapes)
	}
	return nil
}
