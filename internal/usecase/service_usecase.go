package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/internal/domain/service"
	"eventhub/pkg/errors"
	"eventhub/pkg/logger"
	"eventhub/pkg/utils"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ServiceUseCase struct {
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
	storage     service.FileUploadService
}

// NewServiceUseCase builds the catalog use case. storage may be nil, in which
// case image uploads are rejected.
func NewServiceUseCase(
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	storage service.FileUploadService,
) *ServiceUseCase {
	return &ServiceUseCase{
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		storage:     storage,
	}
}

type CreateServiceInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
	PriceUnit   string
	Location    string
	Images      []string
}

// UpdateServiceInput holds optional changes; nil fields are left alone.
type UpdateServiceInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	PriceUnit   *string
	Location    *string
	Images      []string
	IsActive    *bool
}

type ReviewDetail struct {
	*entity.Review
	Customer *entity.UserSummary `json:"customer,omitempty"`
}

type ServiceDetail struct {
	*entity.Service
	Provider *entity.UserSummary `json:"provider,omitempty"`
	Reviews  []*ReviewDetail     `json:"reviews"`
}

type ServiceListItem struct {
	*entity.Service
	Provider *entity.UserSummary `json:"provider,omitempty"`
}

func (uc *ServiceUseCase) CreateService(ctx context.Context, caller service.Caller, input CreateServiceInput) (*entity.Service, error) {
	if err := service.RequireRole(caller, "create services", entity.RoleServiceProvider); err != nil {
		return nil, err
	}

	svc := &entity.Service{
		ProviderID:  caller.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		PriceUnit:   input.PriceUnit,
		Location:    strings.TrimSpace(input.Location),
		Images:      append([]string{}, input.Images...),
		IsActive:    true,
	}

	if err := uc.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// GetService returns the listing with its provider and reviews. A failure to
// load reviews is logged and presented as no reviews.
func (uc *ServiceUseCase) GetService(ctx context.Context, id string) (*ServiceDetail, error) {
	svc, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ServiceDetail{Service: svc, Reviews: []*ReviewDetail{}}

	reviews, _, err := uc.reviewRepo.List(ctx, entity.ReviewFilter{ServiceID: id}, 0, 0)
	if err != nil {
		logger.Warn("failed to load reviews for service %s: %v", id, err)
		reviews = nil
	}

	ids := []string{svc.ProviderID}
	for _, r := range reviews {
		ids = append(ids, r.CustomerID)
	}
	users, err := uc.userRepo.GetMany(ctx, ids)
	if err != nil {
		logger.Warn("failed to load users for service %s: %v", id, err)
		users = map[string]*entity.User{}
	}

	detail.Provider = users[svc.ProviderID].Summary()
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, &ReviewDetail{Review: r, Customer: users[r.CustomerID].Summary()})
	}
	return detail, nil
}

// ListServices is the public catalog. Inactive listings are only shown when
// filtering by provider.
func (uc *ServiceUseCase) ListServices(ctx context.Context, filter entity.ServiceFilter, page utils.PaginationParams) ([]*ServiceListItem, int64, error) {
	if filter.ProviderID == "" {
		filter.ActiveOnly = true
	}

	services, total, err := uc.serviceRepo.List(ctx, filter, page.PageSize, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ProviderID)
	}
	providers, err := uc.userRepo.GetMany(ctx, ids)
	if err != nil {
		logger.Warn("failed to load providers for service list: %v", err)
		providers = map[string]*entity.User{}
	}

	items := make([]*ServiceListItem, 0, len(services))
	for _, s := range services {
		items = append(items, &ServiceListItem{Service: s, Provider: providers[s.ProviderID].Summary()})
	}
	return items, total, nil
}

func (uc *ServiceUseCase) ownedService(ctx context.Context, caller service.Caller, id, action string) (*entity.Service, error) {
	svc, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.RequireOwnerOrAdmin(caller, action, svc.ProviderID); err != nil {
		return nil, err
	}
	return svc, nil
}

func (uc *ServiceUseCase) UpdateService(ctx context.Context, caller service.Caller, id string, input UpdateServiceInput) (*entity.Service, error) {
	svc, err := uc.ownedService(ctx, caller, id, "update this service")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		svc.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		svc.Description = *input.Description
	}
	if input.Category != nil {
		svc.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		svc.Price = *input.Price
	}
	if input.PriceUnit != nil {
		svc.PriceUnit = *input.PriceUnit
	}
	if input.Location != nil {
		svc.Location = strings.TrimSpace(*input.Location)
	}
	if input.Images != nil {
		svc.Images = append([]string{}, input.Images...)
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}

	if err := uc.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return uc.serviceRepo.GetByID(ctx, id)
}

func (uc *ServiceUseCase) DeleteService(ctx context.Context, caller service.Caller, id string) error {
	svc, err := uc.ownedService(ctx, caller, id, "delete this service")
	if err != nil {
		return err
	}

	if err := uc.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.storage != nil {
		for _, url := range svc.Images {
			if err := uc.storage.DeleteFile(ctx, url); err != nil {
				logger.Warn("failed to delete image %s of service %s: %v", url, id, err)
			}
		}
	}
	return nil
}

func (uc *ServiceUseCase) UploadImage(ctx context.Context, caller service.Caller, id string, file io.Reader, contentType string, size int64) (*entity.Service, error) {
	if uc.storage == nil {
		return nil, errors.BadRequest("Image uploads are not configured", nil)
	}

	svc, err := uc.ownedService(ctx, caller, id, "upload images for this service")
	if err != nil {
		return nil, err
	}

	if !allowedImageTypes[strings.ToLower(contentType)] {
		return nil, errors.BadRequest("Only JPEG, PNG, GIF and WebP images are allowed", nil)
	}
	if size > MaxImageSize {
		return nil, errors.BadRequest(fmt.Sprintf("Image must be at most %d MB", MaxImageSize>>20), nil)
	}

	url, err := uc.storage.UploadFile(ctx, file, contentType, "services/"+id)
	if err != nil {
		return nil, errors.Internal("Failed to upload image", err)
	}

	svc.Images = append(svc.Images, url)
	if err := uc.serviceRepo.Update(ctx, svc); err != nil {
		if delErr := uc.storage.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("failed to clean up image %s: %v", url, delErr)
		}
		return nil, err
	}
	return svc, nil
}

func (uc *ServiceUseCase) RemoveImage(ctx context.Context, caller service.Caller, id, url string) (*entity.Service, error) {
	svc, err := uc.ownedService(ctx, caller, id, "remove images from this service")
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(svc.Images))
	found := false
	for _, img := range svc.Images {
		if img == url {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, errors.NotFound("Image", nil)
	}

	svc.Images = kept
	if err := uc.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}

	if uc.storage != nil {
		if err := uc.storage.DeleteFile(ctx, url); err != nil {
			logger.Warn("failed to delete image %s of service %s: %v", url, id, err)
		}
	}
	return svc, nil
}
