//go:build !linux && !darwin

package platform

// RenameNoReplace moves oldpath to newpath, failing with an error wrapping
// os.ErrExist if newpath already exists.
func RenameNoReplace(oldpath, newpath string) error {
	return linkNoReplace(oldpath, newpath)
}
