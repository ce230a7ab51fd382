package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ArchiveService stores final leaderboard snapshots for completed challenges
// in object storage, keeping the historical standings queryable after the
// live rows move on.
type ArchiveService struct {
	appContext.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const ARCHIVE_SVC = "archive_svc"

func (svc ArchiveService) Id() string {
	return ARCHIVE_SVC
}

func (svc *ArchiveService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "lockin-archives"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *ArchiveService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Archive service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *ArchiveService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
}

// StoreLeaderboardSnapshot writes the final standings of a challenge as a
// timestamped JSON object.
func (svc *ArchiveService) StoreLeaderboardSnapshot(challengeID string, snapshot interface{}) error {
	if svc.client == nil {
		return fmt.Errorf("archive client not initialized")
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("challenges/%s/leaderboard-%s.json",
		challengeID, time.Now().UTC().Format("20060102T150405Z"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = svc.client.PutObject(ctx, svc.bucketName, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"challenge_id": challengeID,
		"object":       objectName,
	}).Info("Leaderboard snapshot archived")
	return nil
}
