package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Avatars live in an R2 bucket under avatars/<userID>. The API never proxies
// image bytes; clients upload and download through presigned URLs.

var (
	R2Client     *s3.Client
	R2BucketName string
	R2Endpoint   string
	R2PublicBase string
)

// InitR2 initializes the R2 client using static credentials and custom endpoint.
func InitR2(accessKey, secretKey, accountID, bucketName, region, publicBaseURL string) error {
	R2BucketName = bucketName
	R2PublicBase = publicBaseURL
	R2Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	R2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(R2Endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return nil
}

// AvatarKey is the object key for a user's profile image.
func AvatarKey(userID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s", userID)
}

// AvatarPublicURL is the browser-facing URL stored on the user record.
func AvatarPublicURL(userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", R2PublicBase, AvatarKey(userID))
}

// PresignAvatarUpload creates a presigned PUT URL for a user's avatar.
func PresignAvatarUpload(ctx context.Context, userID uuid.UUID, expires time.Duration) (string, error) {
	if R2Client == nil {
		return "", errors.New("object storage not configured")
	}
	presigner := s3.NewPresignClient(R2Client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(AvatarKey(userID)),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// DeleteAvatar removes the avatar object. Missing objects are not an error;
// account deletion calls this unconditionally.
func DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if R2Client == nil {
		return nil
	}
	_, err := R2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(AvatarKey(userID)),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if errors.As(err, &nsk) {
			return nil
		}
		return err
	}
	return nil
}
