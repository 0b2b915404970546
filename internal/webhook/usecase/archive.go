package usecase

import (
	"bytes"
	"context"
	"fmt"

	"adalert-srv/internal/model"
	pkgMinio "adalert-srv/pkg/minio"
)

const archiveContentType = "application/json"

// archivePayload stores the verified raw body. Failures are logged only.
func (uc *implUseCase) archivePayload(ctx context.Context, platform model.Platform, deliveryID string, body []byte) {
	if uc.archive == nil || uc.opts.ArchiveBucket == "" || len(body) == 0 {
		return
	}

	object := buildArchivePath(platform, uc.clock().UTC().Format("2006/01/02"), deliveryID)
	_, err := uc.archive.UploadFile(ctx, &pkgMinio.UploadRequest{
		BucketName:  uc.opts.ArchiveBucket,
		ObjectName:  object,
		Reader:      bytes.NewReader(body),
		Size:        int64(len(body)),
		ContentType: archiveContentType,
		Metadata: map[string]string{
			"platform":    string(platform),
			"delivery-id": deliveryID,
		},
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.webhook.usecase.archivePayload.UploadFile: %s (code=%s): %v", object, pkgMinio.ErrorCode(err), err)
	}
}

// buildArchivePath returns <platform>/<yyyy>/<mm>/<dd>/<delivery id>.json.
func buildArchivePath(platform model.Platform, day, deliveryID string) string {
	return fmt.Sprintf("%s/%s/%s.json", platform, day, deliveryID)
}
