// Package wavsynth synthesizes deterministic test tones and writes them as
// uncompressed RIFF/WAVE files with exact header fields.
//
// A render flows through four stages:
//
//   - Generator turns a WaveformSpec (sine, square, sawtooth, triangle, white
//     or pink noise) into samples addressable by index.
//   - ComposeChannels mixes Voices into an interleaved *audio.FloatBuffer.
//   - Quantize maps the floats to PCM or IEEE float codes, counting clips.
//   - Encoder writes the 44 byte canonical header and the data chunk, with an
//     optional LIST/INFO chunk after it.
//
// Render runs the whole pipeline for a Request. Decoder reads files back for
// inspection and round-trip checks, and EncodeAIFF offers an AIFF container
// for PCM formats.
package wavsynth
