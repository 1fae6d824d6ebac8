package arrays

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

var (
	imagePath = datastructure.NewDataPath("Image")
	cellPath  = imagePath.Child("Cell Data")
)

func newDataStructure(t *testing.T, totalMemory uint64) *datastructure.DataStructure {
	ds := datastructure.NewForTest(t, totalMemory)
	require.NoError(t, ds.Insert(datastructure.NewGroup("Image"), datastructure.DataPath{}))
	require.NoError(t, ds.Insert(datastructure.NewAttributeMatrix("Cell Data", types.Shape{2, 3}), imagePath))
	return ds
}

func TestCreateArray(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	path := cellPath.Child("Phases")
	requireT.NoError(CreateArray[int32](ds, types.Shape{2, 3}, types.Shape{2}, path, types.Execute,
		datastore.FormatMemory))

	arr, err := ArrayFromPath[int32](ds, path)
	requireT.NoError(err)
	requireT.Equal(6, arr.NumTuples())
	requireT.Equal(2, arr.NumComponents())
	requireT.False(arr.DataStore().IsPlaceholder())
	requireT.Equal(uint64(48), ds.Factory().Budget().InUse())

	err = CreateArray[int32](ds, types.Shape{2, 3}, types.Shape{2}, path, types.Execute, datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrDuplicate)
	requireT.Equal(CodeArrayExists, result.Code(err))
	requireT.Equal(uint64(48), ds.Factory().Budget().InUse())

	err = CreateArray[int32](ds, types.Shape{7}, types.Shape{1}, cellPath.Child("Other"), types.Execute,
		datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrShapeMismatch)
	requireT.Equal(CodeTupleShapeMismatch, result.Code(err))

	requireT.NoError(CreateArray[int32](ds, types.Shape{6}, types.Shape{1}, cellPath.Child("Flat"), types.Execute,
		datastore.FormatMemory))

	_, err = ArrayFromPath[float32](ds, path)
	requireT.ErrorIs(err, result.ErrType)
}

func TestCreateArrayValidation(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)

	err := CreateArray[uint8](ds, types.Shape{1}, types.Shape{1}, datastructure.NewDataPath("Missing", "A"),
		types.Execute, datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrPath)
	requireT.Equal(CodeParentMissing, result.Code(err))

	for _, mode := range []types.Mode{types.Preflight, types.Execute} {
		err = CreateArray[uint8](ds, types.Shape{}, types.Shape{1}, imagePath.Child("A"), mode,
			datastore.FormatMemory)
		requireT.ErrorIs(err, result.ErrShape)
		requireT.Equal(CodeEmptyTupleShape, result.Code(err))
	}

	err = CreateArray[uint8](ds, types.Shape{1}, nil, imagePath.Child("A"), types.Execute, datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrShape)
	requireT.Equal(CodeEmptyComponentShape, result.Code(err))

	err = CreateArray[uint8](ds, types.Shape{1}, types.Shape{0}, imagePath.Child("A"), types.Execute,
		datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrShape)
	requireT.Equal(CodeZeroComponents, result.Code(err))

	requireT.NoError(CreateArray[uint8](ds, types.Shape{1}, types.Shape{0}, imagePath.Child("A"), types.Preflight,
		datastore.FormatMemory))
}

func TestCreateArrayMemory(t *testing.T) {
	requireT := require.New(t)

	ds := datastructure.New(datastructure.Config{
		Factory: must(datastore.NewFactory(datastore.Config{TotalMemory: 100})),
	})
	t.Cleanup(func() { requireT.NoError(ds.Close()) })

	err := CreateArray[float64](ds, types.Shape{20}, types.Shape{1}, datastructure.NewDataPath("A"), types.Execute,
		datastore.FormatMemory)
	requireT.ErrorIs(err, result.ErrMemory)
	requireT.Equal(CodeInsufficientMemory, result.Code(err))
	requireT.False(ds.Exists(datastructure.NewDataPath("A")))

	requireT.NoError(CreateArray[float64](ds, types.Shape{10}, types.Shape{1}, datastructure.NewDataPath("A"),
		types.Execute, datastore.FormatMemory))

	// Out-of-core format takes over when the budget is exhausted.
	ds2 := datastructure.NewForTest(t, 100)
	requireT.NoError(CreateArray[float64](ds2, types.Shape{20}, types.Shape{1}, datastructure.NewDataPath("A"),
		types.Execute, datastore.FormatMemory))
	arr, err := ArrayFromPath[float64](ds2, datastructure.NewDataPath("A"))
	requireT.NoError(err)
	requireT.Equal(datastore.FormatMapped, arr.DataFormat())
	requireT.Zero(ds2.Factory().Budget().InUse())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestCreateArrayPreflight(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	path := imagePath.Child("A")
	requireT.NoError(CreateArray[float32](ds, types.Shape{10, 10}, types.Shape{3}, path, types.Preflight,
		datastore.FormatMemory))
	arr, err := ArrayFromPath[float32](ds, path)
	requireT.NoError(err)
	requireT.True(arr.DataStore().IsPlaceholder())
	requireT.Equal(100, arr.NumTuples())
	requireT.Zero(ds.Factory().Budget().InUse())
}

func TestCreateNeighbors(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	path := imagePath.Child("Neighbors")
	requireT.NoError(CreateNeighbors[int32](ds, 4, path, types.Execute))

	list, err := datastructure.GetDataAs[*datastructure.NeighborList[int32]](ds, path)
	requireT.NoError(err)
	requireT.Equal(4, list.NumTuples())
	requireT.NotNil(list.List(3))
	requireT.Empty(list.List(3))

	err = CreateNeighbors[int32](ds, 4, datastructure.NewDataPath("Missing", "N"), types.Execute)
	requireT.Equal(CodeNeighborParent, result.Code(err))

	err = CreateNeighbors[int32](ds, 4, path, types.Execute)
	requireT.ErrorIs(err, result.ErrDuplicate)
	requireT.Equal(CodeNeighborCreateFailed, result.Code(err))

	requireT.NoError(CreateNeighbors[float32](ds, 2, imagePath.Child("Preflight"), types.Preflight))
	requireT.NoError(InitializeNeighborList(ds, imagePath.Child("Preflight")))
	pl, err := datastructure.GetDataAs[*datastructure.NeighborList[float32]](ds, imagePath.Child("Preflight"))
	requireT.NoError(err)
	requireT.NotNil(pl.List(0))

	requireT.ErrorIs(InitializeNeighborList(ds, cellPath), result.ErrType)
}

func TestResizeDataArray(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	free := imagePath.Child("Free")
	requireT.NoError(CreateArray[uint16](ds, types.Shape{4}, types.Shape{1}, free, types.Execute,
		datastore.FormatMemory))
	arr, err := ArrayFromPath[uint16](ds, free)
	requireT.NoError(err)
	for i := range arr.Size() {
		arr.Set(i, uint16(i+1))
	}

	requireT.NoError(ResizeDataArray[uint16](ds, free, types.Shape{4}))
	requireT.NoError(ResizeDataArray[uint16](ds, free, types.Shape{6}))
	requireT.Equal([]uint16{1, 2, 3, 4, 0, 0}, arr.Values())

	err = ResizeDataArray[uint16](ds, imagePath.Child("Missing"), types.Shape{6})
	requireT.Equal(CodeResizeNotFound, result.Code(err))

	inAM := cellPath.Child("A")
	requireT.NoError(CreateArray[uint16](ds, types.Shape{2, 3}, types.Shape{1}, inAM, types.Execute,
		datastore.FormatMemory))
	err = ResizeDataArray[uint16](ds, inAM, types.Shape{7})
	requireT.ErrorIs(err, result.ErrShapeMismatch)
	requireT.Equal(CodeResizeShapeMismatch, result.Code(err))
	requireT.NoError(ResizeDataArray[uint16](ds, inAM, types.Shape{6}))
}

func TestResizeAndReplaceDataArray(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	path := imagePath.Child("A")
	requireT.NoError(CreateArray[int8](ds, types.Shape{4}, types.Shape{2}, path, types.Execute,
		datastore.FormatMemory))
	requireT.Equal(uint64(8), ds.Factory().Budget().InUse())

	requireT.NoError(ResizeAndReplaceDataArray(ds, path, types.Shape{100}, types.Preflight))
	arr, err := ArrayFromPath[int8](ds, path)
	requireT.NoError(err)
	requireT.True(arr.DataStore().IsPlaceholder())
	requireT.Equal(100, arr.NumTuples())
	requireT.Zero(ds.Factory().Budget().InUse())

	requireT.NoError(CreateArray[bool](ds, types.Shape{4}, types.Shape{1}, imagePath.Child("B"), types.Execute,
		datastore.FormatMemory))
	requireT.NoError(ResizeAndReplaceDataArray(ds, imagePath.Child("B"), types.Shape{8}, types.Execute))
	b, err := ArrayFromPath[bool](ds, imagePath.Child("B"))
	requireT.NoError(err)
	requireT.Len(b.Values(), 8)

	requireT.NoError(ds.Insert(datastructure.NewStringArray("S", 1), imagePath))
	requireT.NoError(ResizeAndReplaceDataArray(ds, imagePath.Child("S"), types.Shape{3}, types.Preflight))
	s, err := datastructure.GetDataAs[*datastructure.StringArray](ds, imagePath.Child("S"))
	requireT.NoError(err)
	requireT.Equal(3, s.NumTuples())

	err = ResizeAndReplaceDataArray(ds, imagePath.Child("Missing"), types.Shape{3}, types.Execute)
	requireT.Equal(CodeReplaceNotFound, result.Code(err))
}

func TestDeepCopy(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	src := imagePath.Child("Src")
	dst := imagePath.Child("Dst")
	requireT.NoError(CreateArray[float64](ds, types.Shape{3}, types.Shape{1}, src, types.Execute,
		datastore.FormatMemory))
	srcArr, err := ArrayFromPath[float64](ds, src)
	requireT.NoError(err)
	srcArr.Set(1, math.Pi)

	requireT.NoError(ds.Insert(datastructure.NewStringArray("Dst", 5), imagePath))
	requireT.NoError(DeepCopy(ds, src, dst))

	dstArr, err := ArrayFromPath[float64](ds, dst)
	requireT.NoError(err)
	requireT.Equal([]float64{0, math.Pi, 0}, dstArr.Values())
	requireT.NotEqual(srcArr.ID(), dstArr.ID())

	same, err := SameContents(srcArr, dstArr)
	requireT.NoError(err)
	requireT.True(same)

	dstArr.Set(0, 1)
	requireT.Equal(float64(0), srcArr.At(0))
	same, err = SameContents(srcArr, dstArr)
	requireT.NoError(err)
	requireT.False(same)

	requireT.NoError(CreateNeighbors[int64](ds, 2, imagePath.Child("N"), types.Execute))
	n, err := datastructure.GetDataAs[*datastructure.NeighborList[int64]](ds, imagePath.Child("N"))
	requireT.NoError(err)
	n.AddEntry(1, 42)
	requireT.NoError(DeepCopy(ds, imagePath.Child("N"), imagePath.Child("N2")))
	n2, err := datastructure.GetDataAs[*datastructure.NeighborList[int64]](ds, imagePath.Child("N2"))
	requireT.NoError(err)
	n.AddEntry(1, 43)
	requireT.Equal([]int64{42}, n2.List(1))

	requireT.ErrorIs(DeepCopy(ds, src, datastructure.DataPath{}), result.ErrRemoval)

	requireT.NoError(DeepCopy(ds, src, imagePath.Child("Src")))
	self, err := ArrayFromPath[float64](ds, src)
	requireT.NoError(err)
	requireT.Equal(srcArr.ID(), self.ID())
	requireT.Equal([]float64{0, math.Pi, 0}, self.Values())

	dstArr.Set(0, 0)
	srcArr.Set(2, math.NaN())
	dstArr.Set(2, math.NaN())
	same, err = SameContents(srcArr, dstArr)
	requireT.NoError(err)
	requireT.True(same)
}

func TestConvertArrayDataStore(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	path := imagePath.Child("A")
	requireT.NoError(CreateArray[uint32](ds, types.Shape{5}, types.Shape{1}, path, types.Execute,
		datastore.FormatMemory))
	arr, err := ArrayFromPath[uint32](ds, path)
	requireT.NoError(err)
	arr.Set(4, 9)

	converted, err := ConvertArrayDataStore(ds.Factory(), arr, datastore.FormatMemory)
	requireT.NoError(err)
	requireT.False(converted)

	converted, err = ConvertArrayDataStore(ds.Factory(), arr, datastore.FormatMapped)
	requireT.NoError(err)
	requireT.True(converted)
	requireT.Equal(datastore.FormatMapped, arr.DataFormat())
	requireT.Equal(uint32(9), arr.At(4))
	requireT.Zero(ds.Factory().Budget().InUse())
}

func TestConditionalReplace(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	requireT.NoError(CreateArray[float32](ds, types.Shape{4}, types.Shape{2}, imagePath.Child("A"), types.Execute,
		datastore.FormatMemory))
	requireT.NoError(CreateArray[uint8](ds, types.Shape{4}, types.Shape{1}, imagePath.Child("M"), types.Execute,
		datastore.FormatMemory))
	requireT.NoError(CreateArray[int16](ds, types.Shape{4}, types.Shape{1}, imagePath.Child("Bad"), types.Execute,
		datastore.FormatMemory))

	arr, err := ArrayFromPath[float32](ds, imagePath.Child("A"))
	requireT.NoError(err)
	mask, err := ArrayFromPath[uint8](ds, imagePath.Child("M"))
	requireT.NoError(err)
	mask.Set(1, 1)
	mask.Set(3, 7)

	requireT.NoError(ConditionalReplaceValueInArray("2.5", arr, mask, false))
	requireT.Equal([]float32{0, 0, 2.5, 2.5, 0, 0, 2.5, 2.5}, arr.Values())

	requireT.NoError(ConditionalReplaceValueInArray("-1", arr, mask, true))
	requireT.Equal([]float32{-1, -1, 2.5, 2.5, -1, -1, 2.5, 2.5}, arr.Values())

	err = ConditionalReplaceValueInArray("abc", arr, mask, false)
	requireT.Equal(CodeReplaceConversion, result.Code(err))

	bad, err := ArrayFromPath[int16](ds, imagePath.Child("Bad"))
	requireT.NoError(err)
	err = ConditionalReplaceValueInArray("1", arr, bad, false)
	requireT.Equal(CodeReplaceMaskType, result.Code(err))

	requireT.NoError(CreateArray[bool](ds, types.Shape{2}, types.Shape{1}, imagePath.Child("Short"), types.Execute,
		datastore.FormatMemory))
	short, err := ArrayFromPath[bool](ds, imagePath.Child("Short"))
	requireT.NoError(err)
	requireT.NotPanics(func() {
		err = ConditionalReplaceValueInArray("5", arr, short, false)
	})
	requireT.ErrorIs(err, result.ErrShapeMismatch)
	requireT.Equal(CodeReplaceMaskSize, result.Code(err))
	requireT.Equal([]float32{-1, -1, 2.5, 2.5, -1, -1, 2.5, 2.5}, arr.Values())

	requireT.NoError(CreateArray[uint8](ds, types.Shape{4}, types.Shape{1}, imagePath.Child("P"), types.Preflight,
		datastore.FormatMemory))
	placeholder, err := ArrayFromPath[uint8](ds, imagePath.Child("P"))
	requireT.NoError(err)
	requireT.NotPanics(func() {
		err = ConditionalReplaceValueInArray("5", arr, placeholder, false)
	})
	requireT.Equal(CodeReplaceMaskSize, result.Code(err))

	requireT.ErrorIs(CheckValueConvertsToArrayType("300", mask), result.ErrOverflow)
	requireT.NoError(CheckValueConvertsToArrayType("1e30", arr))
}

func TestValidations(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	a := imagePath.Child("A")
	b := imagePath.Child("B")
	c := imagePath.Child("C")
	requireT.NoError(CreateArray[int32](ds, types.Shape{3}, types.Shape{1}, a, types.Execute, datastore.FormatMemory))
	requireT.NoError(CreateArray[int32](ds, types.Shape{3}, types.Shape{2}, b, types.Execute, datastore.FormatMemory))
	requireT.NoError(CreateArray[uint8](ds, types.Shape{4}, types.Shape{1}, c, types.Execute, datastore.FormatMemory))

	requireT.True(CheckArraysAreSameType(ds, []datastructure.DataPath{a, b}))
	requireT.False(CheckArraysAreSameType(ds, []datastructure.DataPath{a, c}))
	requireT.False(CheckArraysAreSameType(ds, []datastructure.DataPath{a, imagePath.Child("Missing")}))
	requireT.True(CheckArraysHaveSameTupleCount(ds, []datastructure.DataPath{a, b}))
	requireT.False(CheckArraysHaveSameTupleCount(ds, []datastructure.DataPath{a, c}))

	requireT.NoError(ValidateArrays(ds, []datastructure.DataPath{a, b}))
	err := ValidateArrays(ds, []datastructure.DataPath{a, c, imagePath.Child("Missing")})
	requireT.Error(err)
	errs := result.Errors(err)
	requireT.Len(errs, 3)
	requireT.ErrorIs(errs[0], result.ErrType)
	requireT.ErrorIs(errs[1], result.ErrShapeMismatch)
	requireT.ErrorIs(errs[2], result.ErrPath)

	ids, err := ArrayFromPath[int32](ds, a)
	requireT.NoError(err)
	ids.Set(0, 2)
	requireT.NoError(ValidateNumFeaturesInArray(ds, c, ids))
	ids.Set(1, 4)
	err = ValidateNumFeaturesInArray(ds, c, ids)
	requireT.Equal(CodeFeatureMismatch, result.Code(err))
}

func TestImportArrayFromBinaryFile(t *testing.T) {
	requireT := require.New(t)

	ds := newDataStructure(t, 1024)
	file := filepath.Join(t.TempDir(), "values.bin")
	content := make([]byte, 3*2*2)
	for i := range 6 {
		binary.LittleEndian.PutUint16(content[2*i:], uint16(10*i))
	}
	requireT.NoError(os.WriteFile(file, content, 0o600))

	arr, err := ImportArrayFromBinaryFile[uint16](ds, file, imagePath.Child("A"), types.Shape{3}, types.Shape{2})
	requireT.NoError(err)
	requireT.Equal([]uint16{0, 10, 20, 30, 40, 50}, arr.Values())

	_, err = ImportArrayFromBinaryFile[uint16](ds, file, imagePath.Child("B"), types.Shape{4}, types.Shape{2})
	requireT.Equal(CodeImportSize, result.Code(err))

	_, err = ImportArrayFromBinaryFile[uint16](ds, file+".missing", imagePath.Child("B"), types.Shape{3},
		types.Shape{2})
	requireT.Equal(CodeImportOpen, result.Code(err))
}
