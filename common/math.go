package common

import "unsafe"

// SliceToBytes views the backing array of data as bytes, ready for Queue.WriteBuffer. The view
// aliases data; copy it if data will change before the write is consumed. Empty input gives nil.
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	n := int(unsafe.Sizeof(data[0])) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

// StructToBytes views *v as bytes. Field padding is included, so T must match the layout the
// shader expects.
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// AlignUp rounds size up to the next multiple of align.
// An align of zero returns size unchanged.
//
// Parameters:
//   - size: the byte size to round
//   - align: the required alignment in bytes
//
// Returns:
//   - uint64: align * ceil(size / align)
func AlignUp(size, align uint64) uint64 {
	if align == 0 {
		return size
	}
	return align * ((size + align - 1) / align)
}
