package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/nxcore/algorithm"
)

// CopyUsingIndexList fills dest so tuple i receives tuple newToOld[i] of src. Tuples having negative index get
// the blank value. First failing copy, including one past the end of dest, is logged and stops the transfer.
func CopyUsingIndexList[E any](ctx context.Context, src, dest Elements[E], newToOld []int64) error {
	return CopyTuplesUsingIndexList(ctx, src, dest, newToOld, algorithm.Range{Start: 0, End: len(newToOld)})
}

// CopyTuplesUsingIndexList is CopyUsingIndexList limited to the range of destination tuples.
func CopyTuplesUsingIndexList[E any](
	ctx context.Context,
	src, dest Elements[E],
	newToOld []int64,
	r algorithm.Range,
) error {
	for i := r.Start; i < r.End; i++ {
		if algorithm.Cancelled(ctx) {
			return cancelledError()
		}
		oldIndex := newToOld[i]
		if err := checkDestOffset(dest, i); err != nil {
			logCopyFailure(ctx, src.Name, oldIndex, dest.Name, i, err)
			break
		}
		dest.FillTuple(i, dest.blank)
		if oldIndex < 0 {
			continue
		}
		if err := CopyData(src, dest, i, int(oldIndex), 1); err != nil {
			logCopyFailure(ctx, src.Name, oldIndex, dest.Name, i, err)
			break
		}
	}
	return nil
}

// MapRectParams describes how the rectilinear grid is overlaid by the image.
type MapRectParams struct {
	// Origin is the origin of the image as [x, y, z].
	Origin [3]float32

	// ImageDims is the number of image cells along [x, y, z].
	ImageDims [3]int

	// ImageSpacing is the size of image cell along [x, y, z].
	ImageSpacing [3]float32

	// RectGridDims is the number of grid cells along [x, y, z].
	RectGridDims [3]int

	// XBounds, YBounds and ZBounds are the ascending cell boundaries of the grid, one more than the number of cells.
	XBounds []float32
	YBounds []float32
	ZBounds []float32
}

// MapRectGridDataToImageData copies into each image cell the data of the grid cell containing its center.
// Centers outside the grid take the data of the first cell along that axis.
func MapRectGridDataToImageData[E any](ctx context.Context, src, dest Elements[E], params MapRectParams) error {
	imageIndex := 0
	zStart := 1
	for z := range params.ImageDims[2] {
		zIndex := locateCell(params.ZBounds, cellCenter(params, 2, z), &zStart)
		yStart := 1
		for y := range params.ImageDims[1] {
			yIndex := locateCell(params.YBounds, cellCenter(params, 1, y), &yStart)
			xStart := 1
			for x := range params.ImageDims[0] {
				if algorithm.Cancelled(ctx) {
					return cancelledError()
				}
				xIndex := locateCell(params.XBounds, cellCenter(params, 0, x), &xStart)
				rectIndex := params.RectGridDims[0]*params.RectGridDims[1]*zIndex + params.RectGridDims[0]*yIndex + xIndex

				if err := checkDestOffset(dest, imageIndex); err != nil {
					logCopyFailure(ctx, src.Name, int64(rectIndex), dest.Name, imageIndex, err)
					return nil
				}
				dest.FillTuple(imageIndex, dest.blank)
				if err := CopyData(src, dest, imageIndex, rectIndex, 1); err != nil {
					logCopyFailure(ctx, src.Name, int64(rectIndex), dest.Name, imageIndex, err)
					return nil
				}
				imageIndex++
			}
		}
	}
	return nil
}

func cellCenter(params MapRectParams, axis, i int) float32 {
	return params.Origin[axis] + float32(i)*params.ImageSpacing[axis] + params.ImageSpacing[axis]/2
}

// locateCell searches bounds from *start for the cell containing coord. Image cells are visited in ascending
// order, so the search resumes where the previous one ended.
func locateCell(bounds []float32, coord float32, start *int) int {
	for i := *start; i < len(bounds); i++ {
		if coord > bounds[i-1] && coord <= bounds[i] {
			*start = i
			return i - 1
		}
	}
	return 0
}

func logCopyFailure(ctx context.Context, srcName string, srcTuple int64, destName string, destTuple int, err error) {
	logger.Get(ctx).Error("Array copy failed",
		zap.String("sourceArray", srcName),
		zap.Int64("sourceTuple", srcTuple),
		zap.String("destArray", destName),
		zap.Int("destTuple", destTuple),
		zap.Error(err))
}
