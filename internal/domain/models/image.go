package models

// Image — изображение товара, байты хранятся в БД
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Data      []byte `json:"-"`
}

// ImageInfo — описание изображения без самих байтов, для списков
type ImageInfo struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	ByteSize  int    `json:"byteSize"`
}
