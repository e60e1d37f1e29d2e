package info

// ImageObject is an interface that represents an object in a FAT32 volume image.
// It is used to provide generic information about on-disk structures which allows tools like 'fatview'
// to display information about the volume layout.
type ImageObject interface {
	Type() string
	Name() string
	Description() string
	Properties() map[string]interface{}
	Offset() int64
	Size() int64
}
