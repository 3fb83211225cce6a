package vision

import (
    "encoding/json"
    "strings"
)

// Frame is one inbound message from a vision device. Fields beyond the
// discriminator are informational; undecodable frames are dropped.
type Frame struct {
    Type   string `json:"type"`
    Device string `json:"device,omitempty"`
    Vision struct {
        Face struct {
            Name       string  `json:"name"`
            Similarity float64 `json:"similarity"`
        } `json:"face"`
        Object struct {
            Score float64 `json:"score"`
        } `json:"object"`
    } `json:"vision"`
}

// UnknownName is the sentinel label for faces the device saw but could not
// recognize.
const UnknownName = "Unknown"

const objectPrefix = "object_seen:"

// FaceEvent is published on the face channel for every stride-eligible
// face frame, recognized or not.
type FaceEvent struct {
    Kind       string  // "face_recognized" | "face_unknown"
    Name       string
    Similarity float64
}

// ObjectEvent is published on the object channel for stride-eligible,
// sufficiently confident sightings while a session is active.
type ObjectEvent struct {
    Label string
    Score float64
}

// DecodeFrame parses raw message bytes. A false return means the frame is
// malformed and must be silently dropped.
func DecodeFrame(data []byte) (Frame, bool) {
    var f Frame
    if err := json.Unmarshal(data, &f); err != nil {
        return Frame{}, false
    }
    return f, true
}

// FaceEventFrom classifies a frame as a face event. Unrecognized faces get
// the sentinel name.
func FaceEventFrom(f Frame) (FaceEvent, bool) {
    switch f.Type {
    case "face_recognized":
        return FaceEvent{Kind: f.Type, Name: f.Vision.Face.Name, Similarity: f.Vision.Face.Similarity}, true
    case "face_unknown":
        return FaceEvent{Kind: f.Type, Name: UnknownName, Similarity: f.Vision.Face.Similarity}, true
    }
    return FaceEvent{}, false
}

// ObjectEventFrom classifies a frame as an object sighting. The label is
// embedded in the type discriminator after the colon.
func ObjectEventFrom(f Frame) (ObjectEvent, bool) {
    if !strings.HasPrefix(f.Type, objectPrefix) {
        return ObjectEvent{}, false
    }
    label := f.Type[len(objectPrefix):]
    if label == "" {
        label = "unknown"
    }
    return ObjectEvent{Label: label, Score: f.Vision.Object.Score}, true
}
