package models

import "encoding/json"

const VideoStatusReady = "ready"

// VideoStatus mirrors the provider's processing-state object.
type VideoStatus struct {
	State string `json:"state"`
}

// VideoMeta carries the uploader-supplied metadata. Name is the only field
// the service inspects (feature-cache membership).
type VideoMeta struct {
	Name string `json:"name"`
}

// Video is one hosted video as delivered by the provider. The service only
// reads the identifier, processing state and metadata name; every other
// field is kept opaquely and re-serialized untouched.
type Video struct {
	UID    string      `json:"uid"`
	Status VideoStatus `json:"status"`
	Meta   VideoMeta   `json:"meta"`

	extra map[string]json.RawMessage
}

// Name returns the metadata name of the video.
func (v *Video) Name() string {
	return v.Meta.Name
}

// IsReady reports whether the provider finished processing the video.
func (v *Video) IsReady() bool {
	return v.Status.State == VideoStatusReady
}

func (v *Video) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["uid"]; ok {
		if err := json.Unmarshal(raw, &v.UID); err != nil {
			return err
		}
	}
	if raw, ok := fields["status"]; ok {
		if err := json.Unmarshal(raw, &v.Status); err != nil {
			return err
		}
	}
	if raw, ok := fields["meta"]; ok {
		if err := json.Unmarshal(raw, &v.Meta); err != nil {
			return err
		}
	}

	delete(fields, "uid")
	delete(fields, "status")
	delete(fields, "meta")
	v.extra = fields
	return nil
}

func (v Video) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(v.extra)+3)
	for k, raw := range v.extra {
		fields[k] = raw
	}

	uid, err := json.Marshal(v.UID)
	if err != nil {
		return nil, err
	}
	status, err := json.Marshal(v.Status)
	if err != nil {
		return nil, err
	}
	meta, err := json.Marshal(v.Meta)
	if err != nil {
		return nil, err
	}
	fields["uid"] = uid
	fields["status"] = status
	fields["meta"] = meta

	return json.Marshal(fields)
}
