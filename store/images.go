package store

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"treehole/models"
	"treehole/utils"
)

// UpdatePostImages uploads the given files to GridFS, one upload per slot in
// parallel, then writes the new blob ids into the post's slot array. The
// fan-out is best-effort and non-atomic: when one upload fails the others are
// not rolled back, the error propagates, and the already-uploaded blobs stay
// in the bucket unreferenced by any slot.
func (s *Store) UpdatePostImages(ctx context.Context, postID uint, files map[int]*multipart.FileHeader) error {
	contentRef, err := s.postContentRef(ctx, postID)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		uploaded = make(map[int]primitive.ObjectID, len(files))
	)
	for slot, file := range files {
		wg.Add(1)
		go func(slot int, file *multipart.FileHeader) {
			defer wg.Done()
			id, err := s.uploadImage(file)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			uploaded[slot] = id
		}(slot, file)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if len(uploaded) == 0 {
		return nil
	}

	slots := make(map[int]*primitive.ObjectID, len(uploaded))
	for slot, id := range uploaded {
		blobID := id
		slots[slot] = &blobID
	}
	return s.setImageSlots(ctx, contentRef, slots)
}

// RemovePostImages clears the given slots and deletes their blobs from the
// bucket. Slots past the end of the array and slots that were already empty
// are silent no-ops; blob deletion is best-effort.
func (s *Store) RemovePostImages(ctx context.Context, postID uint, slotIndexes []int) error {
	contentRef, err := s.postContentRef(ctx, postID)
	if err != nil {
		return err
	}
	contentID, err := primitive.ObjectIDFromHex(contentRef)
	if err != nil {
		return nil
	}

	imageIDs, err := s.loadImageSlots(ctx, contentID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, slot := range slotIndexes {
		if slot >= len(imageIDs) || imageIDs[slot] == nil {
			continue
		}
		blobID := *imageIDs[slot]
		imageIDs[slot] = nil

		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			if err := s.images.Delete(id); err != nil && utils.Sugar != nil {
				utils.Sugar.Warnf("failed to delete image blob %s: %v", id.Hex(), err)
			}
		}(blobID)
	}
	wg.Wait()

	_, err = s.postContents.UpdateOne(ctx,
		bson.M{"_id": contentID},
		bson.M{"$set": bson.M{"imageIds": imageIDs}})
	return err
}

// setImageSlots writes blob ids into the slot array, zero-extending it when a
// slot lies past the current length.
func (s *Store) setImageSlots(ctx context.Context, contentRef string, slots map[int]*primitive.ObjectID) error {
	contentID, err := primitive.ObjectIDFromHex(contentRef)
	if err != nil {
		return nil
	}

	imageIDs, err := s.loadImageSlots(ctx, contentID)
	if err != nil {
		return err
	}

	maxSlot := 0
	for slot := range slots {
		if slot > maxSlot {
			maxSlot = slot
		}
	}
	imageIDs = extendImageSlots(imageIDs, maxSlot)
	for slot, id := range slots {
		imageIDs[slot] = id
	}

	_, err = s.postContents.UpdateOne(ctx,
		bson.M{"_id": contentID},
		bson.M{"$set": bson.M{"imageIds": imageIDs}})
	return err
}

// extendImageSlots grows the slot array with nil entries so index maxSlot is
// addressable. The array is returned unchanged when already long enough.
func extendImageSlots(ids []*primitive.ObjectID, maxSlot int) []*primitive.ObjectID {
	if maxSlot < len(ids) {
		return ids
	}
	extended := make([]*primitive.ObjectID, maxSlot+1)
	copy(extended, ids)
	return extended
}

func (s *Store) uploadImage(file *multipart.FileHeader) (primitive.ObjectID, error) {
	src, err := file.Open()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer src.Close()
	return s.images.UploadFromStream(file.Filename, src)
}

func (s *Store) loadImageSlots(ctx context.Context, contentID primitive.ObjectID) ([]*primitive.ObjectID, error) {
	var content models.PostContent
	err := s.postContents.FindOne(ctx, bson.M{"_id": contentID}).Decode(&content)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []*primitive.ObjectID{}, nil
	}
	if err != nil {
		return nil, err
	}
	return content.ImageIDs, nil
}

func (s *Store) postContentRef(ctx context.Context, postID uint) (string, error) {
	var index models.Post
	err := s.db.WithContext(ctx).
		Select("id", "content_ref").
		Scopes(models.NotRemoved).
		First(&index, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", err
	}
	return index.ContentRef, nil
}
