package twitter

import (
	"encoding/json"
)

// Variant is one encoding of a video. Bitrate is a pointer because the
// HLS playlist variant carries no bitrate at all, which is different
// from declaring zero.
type Variant struct {
	Bitrate *int   `json:"bitrate"`
	URL     string `json:"url"`
}

type videoInfo struct {
	Variants []Variant `json:"variants"`
}

type mediaEntity struct {
	MediaURL  string     `json:"media_url_https"`
	VideoInfo *videoInfo `json:"video_info"`
}

// ImageURLs returns the downloadable image URLs attached to a tweet
// record.
func ImageURLs(rec Record) []string {
	entities := mediaEntities(rec, "entities")
	urls := make([]string, 0, len(entities))
	for _, m := range entities {
		if m.MediaURL != "" {
			urls = append(urls, m.MediaURL)
		}
	}
	return urls
}

// VideoVariants returns the variant list of each video or animated GIF
// attached to a tweet record. Videos live under extended_entities;
// plain photos there are skipped.
func VideoVariants(rec Record) [][]Variant {
	var videos [][]Variant
	for _, m := range mediaEntities(rec, "extended_entities") {
		if m.VideoInfo != nil {
			videos = append(videos, m.VideoInfo.Variants)
		}
	}
	return videos
}

// BestVariant picks the variant with the highest declared bitrate.
// Variants without a bitrate are never chosen; ok is false when no
// variant declares one.
func BestVariant(variants []Variant) (Variant, bool) {
	var best Variant
	found := false
	for _, v := range variants {
		if v.Bitrate == nil {
			continue
		}
		if !found || *v.Bitrate > *best.Bitrate {
			best = v
			found = true
		}
	}
	return best, found
}

func mediaEntities(rec Record, key string) []mediaEntity {
	block, ok := rec[key].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := block["media"]
	if !ok {
		return nil
	}
	// remarshal the untyped media list into the struct form
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var entities []mediaEntity
	if err := json.Unmarshal(buf, &entities); err != nil {
		return nil
	}
	return entities
}
