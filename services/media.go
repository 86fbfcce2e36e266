package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/shared"
)

// MediaService handles avatar uploads, the only user-supplied binary the
// API stores.
type MediaService struct {
	context.DefaultService

	userSvc  *UserService
	minioSvc *MinIOService
	baseURL  string
}

const MEDIA_SVC = "media_svc"

const maxAvatarSize = 2 * 1024 * 1024

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

func (svc *MediaService) UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarResponse, error) {
	if !isValidImageFile(file.Filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}

	if file.Size > maxAvatarSize {
		return nil, shared.NewBadRequestError(nil, "Avatar file too large. Maximum size: 2MB")
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("avatars/%s_%d%s", userID, time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	if _, err := svc.minioSvc.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload avatar to storage")
	}

	fileURL, err := svc.minioSvc.GetFileURL(objectName, 7*24*time.Hour)
	if err != nil {
		log.WithError(err).Warn("Failed to generate presigned URL, falling back to direct path")
		fileURL = fmt.Sprintf("%s/%s/%s", svc.baseURL, svc.minioSvc.GetBucketName(), objectName)
	}

	if err := svc.userSvc.SetAvatarURL(userID, fileURL); err != nil {
		if delErr := svc.minioSvc.DeleteFile(objectName); delErr != nil {
			log.WithError(delErr).WithField("object", objectName).Warn("Failed to clean up orphaned avatar")
		}
		return nil, err
	}

	return &dto.AvatarResponse{Avatar: fileURL}, nil
}

func isValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}
