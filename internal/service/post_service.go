package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cofix/internal/apperrors"
	"cofix/internal/config"
	"cofix/internal/metrics"
	"cofix/internal/models"
	"cofix/internal/notification"
	"cofix/internal/repository"
	"cofix/internal/storage"
)

const (
	demoSchemeOwner = "test@user.com"
	demoSchemeName  = "Rythu Bandhu"
)

type PostService interface {
	CreatePost(ctx context.Context, draft models.PostDraft) (*models.Post, error)
	ReportIssue(ctx context.Context, report models.IssueReport) (*models.Post, error)
	UpdatePost(ctx context.Context, key models.PostKey, patch models.PostPatch) (*models.Post, error)
	UpdateStatus(ctx context.Context, postID int64, status, adminEmail string) (*models.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	ListByEmail(ctx context.Context, email string) ([]models.Post, error)
	ListByEmailAndType(ctx context.Context, email, benefitType string) ([]models.Post, error)
	ListByType(ctx context.Context, benefitType string) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	SeedDemoScheme(ctx context.Context) error
}

type postService struct {
	postRepo   repository.PostRepository
	imageRepo  repository.ImageRepository
	tracker    AdminProgressTracker
	archive    storage.ImageArchive
	notifier   notification.Notifier
	adminEmail string
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewPostService(
	postRepo repository.PostRepository,
	imageRepo repository.ImageRepository,
	tracker AdminProgressTracker,
	archive storage.ImageArchive,
	notifier notification.Notifier,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) PostService {
	return &postService{
		postRepo:   postRepo,
		imageRepo:  imageRepo,
		tracker:    tracker,
		archive:    archive,
		notifier:   notifier,
		adminEmail: cfg.AdminEmail,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

func (p *postService) CreatePost(ctx context.Context, draft models.PostDraft) (*models.Post, error) {
	post, err := postFromDraft(draft)
	if err != nil {
		return nil, err
	}

	if err := p.insert(ctx, &post); err != nil {
		return nil, err
	}

	p.metrics.IncPostsCreated(string(post.BenefitType))
	p.afterCreate(ctx, post)

	return &post, nil
}

// ReportIssue turns the multipart report form into a community issue.
func (p *postService) ReportIssue(ctx context.Context, report models.IssueReport) (*models.Post, error) {
	if strings.TrimSpace(report.Title) == "" ||
		strings.TrimSpace(report.Description) == "" ||
		strings.TrimSpace(report.UserEmail) == "" {
		return nil, apperrors.Validation("report issue", "title, description and userEmail are required")
	}
	if report.Location == nil {
		return nil, apperrors.Validation("report issue", "lat and lng are required")
	}

	draft := models.PostDraft{
		Email:       report.UserEmail,
		BenefitType: string(models.CommunityIssue),
		SchemeName:  report.Title,
		IssueName:   report.Title,
		Description: report.Description,
		Comment:     report.Category,
		Location:    report.Location,
		Status:      string(models.StatusPending),
		Urgency:     report.Urgency,
	}

	if len(report.ImageData) > 0 {
		encoded := base64.StdEncoding.EncodeToString(report.ImageData)
		draft.Image = &encoded
	}

	return p.CreatePost(ctx, draft)
}

func (p *postService) UpdatePost(ctx context.Context, key models.PostKey, patch models.PostPatch) (*models.Post, error) {
	if strings.TrimSpace(key.Email) == "" || key.PostID <= 0 {
		return nil, apperrors.Validation("update post", "email and a positive postId are required")
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	post, err := p.postRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	imageReplaced := patch.Image != nil && (post.Image == nil || *post.Image != *patch.Image)

	applyPatch(post, patch)
	models.NormalizePost(post)

	if err := p.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if imageReplaced {
		p.replaceArchivedImage(ctx, *post)
	}

	return post, nil
}

// UpdateStatus is the admin status change. The post write comes first; the
// resolved counter is a separate write whose failure is only logged.
func (p *postService) UpdateStatus(ctx context.Context, postID int64, rawStatus, adminEmail string) (*models.Post, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, apperrors.Validation("update status", err.Error())
	}
	if postID <= 0 {
		return nil, apperrors.Validation("update status", "a positive postId is required")
	}
	if strings.TrimSpace(adminEmail) == "" {
		return nil, apperrors.Validation("update status", "adminEmail is required")
	}

	post, err := p.postRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	models.NormalizePost(post)

	previous := post.Status
	post.Status = status

	if err := p.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	p.metrics.IncStatusUpdates(string(status))

	// only a transition into SOLVED counts
	if !previous.Is(models.StatusSolved) {
		if err := p.tracker.MarkResolvedIfStatusSolved(ctx, adminEmail, status); err != nil {
			p.metrics.IncResolvedCounterFailures()
			p.logger.Error("resolved counter was not incremented",
				"post_id", postID, "admin_email", adminEmail, "error", err)
		}
	}

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID int64) error {
	if postID <= 0 {
		return apperrors.Validation("delete post", "a positive postId is required")
	}

	if err := p.postRepo.DeleteByPostID(ctx, postID); err != nil {
		return err
	}
	p.metrics.IncPostsDeleted()

	p.removeArchivedImages(ctx, postID)
	return nil
}

func (p *postService) ListByEmail(ctx context.Context, email string) ([]models.Post, error) {
	posts, err := p.postRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return models.NormalizePosts(posts), nil
}

func (p *postService) ListByEmailAndType(ctx context.Context, email, rawType string) ([]models.Post, error) {
	benefitType, err := models.ParseBenefitType(rawType)
	if err != nil {
		return nil, apperrors.Validation("list posts", err.Error())
	}

	posts, err := p.postRepo.FindByEmailAndType(ctx, email, benefitType)
	if err != nil {
		return nil, err
	}
	return models.NormalizePosts(posts), nil
}

func (p *postService) ListByType(ctx context.Context, rawType string) ([]models.Post, error) {
	benefitType, err := models.ParseBenefitType(rawType)
	if err != nil {
		return nil, apperrors.Validation("list posts", err.Error())
	}

	posts, err := p.postRepo.FindByType(ctx, benefitType)
	if err != nil {
		return nil, err
	}
	return models.NormalizePosts(posts), nil
}

func (p *postService) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := p.postRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.NormalizePosts(posts), nil
}

// SeedDemoScheme adds the sample government scheme for the demo account once.
func (p *postService) SeedDemoScheme(ctx context.Context) error {
	existing, err := p.postRepo.FindByEmailAndType(ctx, demoSchemeOwner, models.GovernmentScheme)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	post := models.Post{
		Email:       demoSchemeOwner,
		BenefitType: models.GovernmentScheme,
		SchemeName:  demoSchemeName,
		Description: demoSchemeName + " description",
		Location:    &models.Location{Lat: 17.455598622434977, Lng: 78.66648576707394},
		Comment:     demoSchemeName + " Description",
	}
	if err := p.insert(ctx, &post); err != nil {
		return err
	}

	p.logger.Info("seeded demo government scheme", "email", demoSchemeOwner, "post_id", post.PostID)
	return nil
}

// insert stamps createDate, applies defaults and stores the post.
func (p *postService) insert(ctx context.Context, post *models.Post) error {
	post.PostID = 0
	post.CreateDate = p.now()
	models.NormalizePost(post)

	return p.postRepo.Create(ctx, post)
}

// afterCreate runs once the post is committed. Nothing here may fail the
// request.
func (p *postService) afterCreate(ctx context.Context, post models.Post) {
	p.archiveImage(ctx, post)

	if p.notifier == nil {
		return
	}

	recipients := []string{post.Email}
	if p.adminEmail != "" && !strings.EqualFold(p.adminEmail, post.Email) {
		recipients = append(recipients, p.adminEmail)
	}

	for _, recipient := range recipients {
		if err := p.notifier.Send(ctx, recipient, post); err != nil {
			p.metrics.IncNotificationFailures()
			p.logger.Warn("post created but notification failed",
				"post_id", post.PostID,
				"recipient", recipient,
				"error", apperrors.Notification("notify post created", err))
		}
	}
}

func (p *postService) archiveImage(ctx context.Context, post models.Post) {
	if p.archive == nil || post.Image == nil {
		return
	}

	data, err := decodeImage(*post.Image)
	if err != nil {
		return
	}

	objectName, contentType, err := p.archive.UploadImage(ctx, post.PostID, post.Email, data)
	if err != nil {
		p.metrics.IncImageArchiveFailures()
		p.logger.Warn("image archive upload failed", "post_id", post.PostID, "error", err)
		return
	}

	if p.imageRepo == nil {
		return
	}

	image := &models.ImageObject{
		PostID:      post.PostID,
		Email:       post.Email,
		ObjectName:  objectName,
		ContentType: contentType,
		CreatedAt:   p.now(),
	}
	if err := p.imageRepo.Create(ctx, image); err != nil {
		p.metrics.IncImageArchiveFailures()
		p.logger.Warn("archived image was not indexed", "post_id", post.PostID, "object", objectName, "error", err)
		if err := p.archive.DeleteImage(ctx, objectName); err != nil {
			p.logger.Warn("orphaned archive object", "object", objectName, "error", err)
		}
	}
}

// replaceArchivedImage drops the objects of the previous image and archives
// the current one, so the index only describes what the post holds.
func (p *postService) replaceArchivedImage(ctx context.Context, post models.Post) {
	if p.archive == nil {
		return
	}
	p.removeArchivedImages(ctx, post.PostID)
	p.archiveImage(ctx, post)
}

func (p *postService) removeArchivedImages(ctx context.Context, postID int64) {
	if p.imageRepo == nil {
		return
	}

	images, err := p.imageRepo.GetByPostID(ctx, postID)
	if err != nil {
		p.logger.Warn("could not list archived images", "post_id", postID, "error", err)
		return
	}
	if len(images) == 0 {
		return
	}

	if p.archive != nil {
		for _, image := range images {
			if err := p.archive.DeleteImage(ctx, image.ObjectName); err != nil {
				p.metrics.IncImageArchiveFailures()
				p.logger.Warn("could not remove archived image", "object", image.ObjectName, "error", err)
			}
		}
	}

	if err := p.imageRepo.DeleteByPostID(ctx, postID); err != nil {
		p.logger.Warn("could not delete image index rows", "post_id", postID, "error", err)
	}
}

func postFromDraft(d models.PostDraft) (models.Post, error) {
	const op = "create post"

	email := strings.TrimSpace(d.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return models.Post{}, apperrors.Validation(op, "a valid email is required")
	}

	post := models.Post{
		Email:               email,
		SchemeName:          d.SchemeName,
		IssueName:           d.IssueName,
		Description:         d.Description,
		ActivityDescription: d.ActivityDescription,
		Comment:             d.Comment,
		Image:               d.Image,
		Location:            d.Location,
	}

	if d.BenefitType != "" {
		t, err := models.ParseBenefitType(d.BenefitType)
		if err != nil {
			return models.Post{}, apperrors.Validation(op, err.Error())
		}
		post.BenefitType = t
	}
	if d.Status != "" {
		s, err := models.ParseStatus(d.Status)
		if err != nil {
			return models.Post{}, apperrors.Validation(op, err.Error())
		}
		post.Status = s
	}
	if d.Urgency != "" {
		u, err := models.ParseUrgency(d.Urgency)
		if err != nil {
			return models.Post{}, apperrors.Validation(op, err.Error())
		}
		post.Urgency = u
	}

	if err := validateLocation(op, d.Location); err != nil {
		return models.Post{}, err
	}
	if d.Image != nil {
		if _, err := decodeImage(*d.Image); err != nil {
			return models.Post{}, apperrors.Validation(op, "image must be base64 encoded")
		}
	}

	return post, nil
}

func validatePatch(patch models.PostPatch) error {
	const op = "update post"

	if patch.Urgency != nil {
		if _, err := models.ParseUrgency(*patch.Urgency); err != nil {
			return apperrors.Validation(op, err.Error())
		}
	}
	if patch.Status != nil {
		if _, err := models.ParseStatus(*patch.Status); err != nil {
			return apperrors.Validation(op, err.Error())
		}
	}
	if patch.Image != nil {
		if _, err := decodeImage(*patch.Image); err != nil {
			return apperrors.Validation(op, "image must be base64 encoded")
		}
	}
	return validateLocation(op, patch.Location)
}

// applyPatch copies the supplied fields. Identity and createDate have no
// counterpart in PostPatch, so they cannot change here. Enum values were
// checked by validatePatch.
func applyPatch(post *models.Post, patch models.PostPatch) {
	if patch.Description != nil {
		post.Description = *patch.Description
	}
	if patch.IssueName != nil {
		post.IssueName = *patch.IssueName
	}
	if patch.SchemeName != nil {
		post.SchemeName = *patch.SchemeName
	}
	if patch.ActivityDescription != nil {
		post.ActivityDescription = *patch.ActivityDescription
	}
	if patch.Comment != nil {
		post.Comment = *patch.Comment
	}
	if patch.Urgency != nil {
		post.Urgency, _ = models.ParseUrgency(*patch.Urgency)
	}
	if patch.Status != nil {
		post.Status, _ = models.ParseStatus(*patch.Status)
	}
	if patch.Location != nil {
		loc := *patch.Location
		post.Location = &loc
	}
	if patch.Image != nil {
		image := *patch.Image
		post.Image = &image
	}
}

func validateLocation(op string, loc *models.Location) error {
	if loc == nil {
		return nil
	}
	if err := validate.Struct(loc); err != nil {
		return apperrors.Validation(op, fmt.Sprintf("location out of range: %v", err))
	}
	return nil
}

// decodeImage accepts plain base64 or a data URL.
func decodeImage(image string) ([]byte, error) {
	if i := strings.Index(image, ";base64,"); i >= 0 && strings.HasPrefix(image, "data:") {
		image = image[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(image)
}
