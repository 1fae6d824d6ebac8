package transfer

import (
	"context"

	"github.com/outofforest/nxcore/algorithm"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported by transfers.
const (
	CodeDestOffset        = -2032
	CodeComponentMismatch = -2033
	CodeBounds            = -2034
	CodeCancelled         = -2035
	CodeDims              = -2036
	CodeArrayType         = -2037
	CodeDirection         = -2038
)

// CopyData copies totalSrcTuples tuples starting at srcTupleOffset of src into dest starting at destTupleOffset.
func CopyData[E any](src, dest Elements[E], destTupleOffset, srcTupleOffset, totalSrcTuples int) error {
	if err := checkDestOffset(dest, destTupleOffset); err != nil {
		return err
	}
	if src.NumComponents != dest.NumComponents {
		return result.Errorf(result.ErrComponentMismatch, CodeComponentMismatch,
			"Source (%s) and destination (%s) arrays have different number of components: %d != %d", src.Name,
			dest.Name, src.NumComponents, dest.NumComponents)
	}
	destTuples := dest.NumTuples()
	nc := dest.NumComponents
	if destTupleOffset < 0 || srcTupleOffset < 0 || (totalSrcTuples+destTupleOffset)*nc > destTuples*nc ||
		(srcTupleOffset+totalSrcTuples)*nc > len(src.Values) {
		return result.Errorf(result.ErrBounds, CodeBounds,
			"Copying %d tuples from tuple %d of %s into tuple %d of %s is out of bounds", totalSrcTuples,
			srcTupleOffset, src.Name, destTupleOffset, dest.Name)
	}
	dest.copyValues(dest.Values[destTupleOffset*nc:(destTupleOffset+totalSrcTuples)*nc],
		src.Values[srcTupleOffset*nc:(srcTupleOffset+totalSrcTuples)*nc])
	return nil
}

func checkDestOffset[E any](dest Elements[E], destTupleOffset int) error {
	if destTuples := dest.NumTuples(); destTupleOffset >= destTuples {
		return result.Errorf(result.ErrBounds, CodeDestOffset,
			"The destination tuple offset (%d) is not smaller than the total number of tuples (%d) in %s",
			destTupleOffset, destTuples, dest.Name)
	}
	return nil
}

func checkDims(dims ...types.Shape) error {
	for _, d := range dims {
		if len(d) != 3 {
			return result.Errorf(result.ErrShape, CodeDims, "grid dimensions must be given as [Z, Y, X], got %s", d)
		}
	}
	return nil
}

func cancelledError() error {
	return result.Errorf(result.ErrCancelled, CodeCancelled, "transfer has been cancelled")
}

// ShiftDataX spreads rows of the grid having originalDims over the bigger grid having newDims, so space for
// appended data is left at the end of each row. Dimensions are given as [Z, Y, X].
func ShiftDataX[E any](ctx context.Context, arr Elements[E], originalDims, newDims types.Shape) error {
	if err := checkDims(originalDims, newDims); err != nil {
		return err
	}
	srcX := originalDims[2]
	destX := newDims[2]
	dimY := newDims[1]
	// Rows are moved from the last one so none of them is overwritten before being moved.
	for z := newDims[0] - 1; z >= 0; z-- {
		for y := dimY - 1; y >= 0; y-- {
			if algorithm.Cancelled(ctx) {
				return cancelledError()
			}
			srcOffset := z*dimY*srcX + y*srcX
			destOffset := z*dimY*destX + y*destX
			if srcOffset == destOffset {
				continue
			}
			if err := CopyData(arr, arr, destOffset, srcOffset, srcX); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShiftDataY spreads Z slices of the grid having originalDims over the bigger grid having newDims, so space for
// appended rows is left at the end of each slice. Dimensions are given as [Z, Y, X].
func ShiftDataY[E any](ctx context.Context, arr Elements[E], originalDims, newDims types.Shape) error {
	if err := checkDims(originalDims, newDims); err != nil {
		return err
	}
	srcY := originalDims[1]
	destY := newDims[1]
	dimX := newDims[2]
	for z := newDims[0] - 1; z >= 0; z-- {
		for y := srcY - 1; y >= 0; y-- {
			if algorithm.Cancelled(ctx) {
				return cancelledError()
			}
			srcOffset := z*srcY*dimX + y*dimX
			destOffset := z*destY*dimX + y*dimX
			if srcOffset == destOffset {
				continue
			}
			if err := CopyData(arr, arr, destOffset, srcOffset, dimX); err != nil {
				return err
			}
		}
	}
	return nil
}

// AppendDataX writes rows of the inputs one after another into each row of dest starting at column offset.
// When mirror is set, every row of dest is reversed afterwards.
func AppendDataX[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	newDims types.Shape,
	offset int,
	mirror bool,
) error {
	if err := checkDims(append([]types.Shape{newDims}, inputDims...)...); err != nil {
		return err
	}
	destX := newDims[2]
	dimY := newDims[1]
	for z := range newDims[0] {
		for y := range dimY {
			xOffset := offset
			for i, in := range inputs {
				if algorithm.Cancelled(ctx) {
					return cancelledError()
				}
				srcX := inputDims[i][2]
				if err := CopyData(in, dest, z*dimY*destX+y*destX+xOffset, z*dimY*srcX+y*srcX, srcX); err != nil {
					return err
				}
				xOffset += srcX
			}
		}
	}
	if !mirror {
		return nil
	}
	for z := range newDims[0] {
		for y := range dimY {
			row := z*dimY*destX + y*destX
			for x := range destX / 2 {
				dest.swapTuples(row+x, row+destX-1-x, 1)
			}
		}
	}
	return nil
}

// AppendDataY writes Z slices of the inputs one after another into each slice of dest starting at row offset.
// When mirror is set, rows of every slice are reversed afterwards.
func AppendDataY[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	newDims types.Shape,
	offset int,
	mirror bool,
) error {
	if err := checkDims(append([]types.Shape{newDims}, inputDims...)...); err != nil {
		return err
	}
	destY := newDims[1]
	dimX := newDims[2]
	yOffset := offset
	for i, in := range inputs {
		srcY := inputDims[i][1]
		for z := range newDims[0] {
			for y := range srcY {
				if algorithm.Cancelled(ctx) {
					return cancelledError()
				}
				if err := CopyData(in, dest, z*destY*dimX+(y+yOffset)*dimX, z*srcY*dimX+y*dimX, dimX); err != nil {
					return err
				}
			}
		}
		yOffset += srcY
	}
	if !mirror {
		return nil
	}
	for z := range newDims[0] {
		for y := range destY / 2 {
			dest.swapTuples(z*destY*dimX+y*dimX, z*destY*dimX+(destY-1-y)*dimX, dimX)
		}
	}
	return nil
}

// AppendDataZ writes the inputs one after another into dest starting at tuple offset.
// When mirror is set, Z slices of dest are reversed afterwards.
func AppendDataZ[E any](
	ctx context.Context,
	inputs []Elements[E],
	dest Elements[E],
	newDims types.Shape,
	offset int,
	mirror bool,
) error {
	if err := checkDims(newDims); err != nil {
		return err
	}
	destOffset := offset
	for _, in := range inputs {
		if algorithm.Cancelled(ctx) {
			return cancelledError()
		}
		numTuples := in.NumTuples()
		if err := CopyData(in, dest, destOffset, 0, numTuples); err != nil {
			return err
		}
		destOffset += numTuples
	}
	if !mirror {
		return nil
	}
	sliceSize := newDims[1] * newDims[2]
	dimZ := newDims[0]
	for z := range dimZ / 2 {
		dest.swapTuples(z*sliceSize, (dimZ-1-z)*sliceSize, sliceSize)
	}
	return nil
}

// ShiftAndAppendDataX makes room at the end of each row of dest and appends the inputs there.
func ShiftAndAppendDataX[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	originalDims, newDims types.Shape,
	mirror bool,
) error {
	if err := ShiftDataX(ctx, dest, originalDims, newDims); err != nil {
		return err
	}
	return AppendDataX(ctx, inputs, inputDims, dest, newDims, originalDims[2], mirror)
}

// ShiftAndAppendDataY makes room at the end of each Z slice of dest and appends the inputs there.
func ShiftAndAppendDataY[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	originalDims, newDims types.Shape,
	mirror bool,
) error {
	if err := ShiftDataY(ctx, dest, originalDims, newDims); err != nil {
		return err
	}
	return AppendDataY(ctx, inputs, inputDims, dest, newDims, originalDims[1], mirror)
}

// AppendData appends the inputs to dest along the direction. Dest has already been resized from originalDims
// to newDims, the data it held before is kept.
func AppendData[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	originalDims, newDims types.Shape,
	direction types.Direction,
	mirror bool,
) error {
	if err := checkDims(originalDims); err != nil {
		return err
	}
	switch direction {
	case types.X:
		return ShiftAndAppendDataX(ctx, inputs, inputDims, dest, originalDims, newDims, mirror)
	case types.Y:
		return ShiftAndAppendDataY(ctx, inputs, inputDims, dest, originalDims, newDims, mirror)
	case types.Z:
		return AppendDataZ(ctx, inputs, dest, newDims, originalDims.Product(), mirror)
	default:
		return directionError(direction)
	}
}

// CombineData writes the inputs side by side into dest along the direction.
func CombineData[E any](
	ctx context.Context,
	inputs []Elements[E],
	inputDims []types.Shape,
	dest Elements[E],
	newDims types.Shape,
	direction types.Direction,
	mirror bool,
) error {
	switch direction {
	case types.X:
		return AppendDataX(ctx, inputs, inputDims, dest, newDims, 0, mirror)
	case types.Y:
		return AppendDataY(ctx, inputs, inputDims, dest, newDims, 0, mirror)
	case types.Z:
		return AppendDataZ(ctx, inputs, dest, newDims, 0, mirror)
	default:
		return directionError(direction)
	}
}

func directionError(direction types.Direction) error {
	return result.Errorf(result.ErrRange, CodeDirection, "unknown direction %d", direction)
}
