package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	FolderProfiles     = "skill_tutor_profiles"
	FolderThumbnails   = "skill_tutor_thumbnails"
	FolderResources    = "skill_tutor_resources"
	FolderCertificates = "skill_tutor_certificates"
)

var ErrStorageNotConfigured = errors.New("cloudinary is not configured")

func StorageConfigured() bool {
	return config.Config("CLOUDINARY_URL") != ""
}

func newCloudinary() (*cloudinary.Cloudinary, error) {
	if !StorageConfigured() {
		return nil, ErrStorageNotConfigured
	}
	return cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
}

// UploadFile stores file (a path, reader or multipart header) and returns its secure URL.
func UploadFile(file interface{}, params uploader.UploadParams) (string, error) {
	cld, err := newCloudinary()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// SignUpload produces the parameters a browser needs for a direct signed upload.
func SignUpload(folder string) (*UploadSignature, error) {
	cld, err := newCloudinary()
	if err != nil {
		return nil, err
	}

	parsedURL, err := url.Parse(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return nil, err
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return nil, err
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		CloudName: cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}
