package services

import (
  "bytes"
  "fmt"
  "image"
  "image/jpeg"
  _ "image/png"
  "os"
  "path/filepath"

  "golang.org/x/image/draw"

  "github.com/doorflow/doorflow-backend/internal/logger"
)

const thumbnailMaxDim = 320

// MediaStore abstracts where uploaded field media lands. The default
// implementation writes to a local directory tree; swapping in an object
// store only needs this interface.
type MediaStore interface {
  Save(key string, data []byte) (string, error)
  SaveThumbnail(key string, original []byte) (string, error)
}

type localMediaStore struct {
  root string
  log  *logger.Logger
}

func NewLocalMediaStore(root string, baseLog *logger.Logger) (MediaStore, error) {
  storeLog := baseLog.With("service", "LocalMediaStore")
  if err := os.MkdirAll(root, 0o755); err != nil {
    return nil, fmt.Errorf("Failed to create media root %s: %w", root, err)
  }
  return &localMediaStore{root: root, log: storeLog}, nil
}

func (ls *localMediaStore) Save(key string, data []byte) (string, error) {
  path := filepath.Join(ls.root, filepath.FromSlash(key))
  if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
    return "", fmt.Errorf("Failed to create media directory: %w", err)
  }
  if err := os.WriteFile(path, data, 0o644); err != nil {
    return "", fmt.Errorf("Failed to write media file: %w", err)
  }
  return path, nil
}

// SaveThumbnail decodes the original image, scales the long edge down to the
// thumbnail size and writes it as JPEG next to the original.
func (ls *localMediaStore) SaveThumbnail(key string, original []byte) (string, error) {
  img, _, err := image.Decode(bytes.NewReader(original))
  if err != nil {
    return "", fmt.Errorf("Failed to decode image: %w", err)
  }

  bounds := img.Bounds()
  width, height := bounds.Dx(), bounds.Dy()
  if width <= 0 || height <= 0 {
    return "", fmt.Errorf("Image has empty bounds")
  }
  scale := float64(thumbnailMaxDim) / float64(width)
  if height > width {
    scale = float64(thumbnailMaxDim) / float64(height)
  }
  if scale > 1 {
    scale = 1
  }
  dstW := int(float64(width) * scale)
  dstH := int(float64(height) * scale)
  dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
  draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

  var buf bytes.Buffer
  if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
    return "", fmt.Errorf("Failed to encode thumbnail: %w", err)
  }
  return ls.Save(key, buf.Bytes())
}
